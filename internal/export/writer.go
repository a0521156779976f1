// File path: internal/export/writer.go

// Package export writes derived feature files from CVR dumps.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nordicdata/cvrminer/internal/common"
	"github.com/nordicdata/cvrminer/internal/cvr"
	"github.com/nordicdata/cvrminer/internal/source"
)

const progressInterval = 1000

// WriteFeatures drives the reader to exhaustion and appends one CSV row per
// company record to the file at path, header first. The batch aborts at the
// first unrecoverable read error; rows already written stay in place. The
// returned count is the number of feature rows written.
func WriteFeatures(ctx context.Context, reader *source.Reader, path string) (int, error) {
	logger := common.Logger()
	if reader == nil {
		return 0, errors.New("reader required")
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create feature file: %w", err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	if err := writer.Write(cvr.FeatureHeader()); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			writer.Flush()
			return count, ctx.Err()
		default:
		}
		company, err := reader.NextCompany()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writer.Flush()
			logger.Error("export: batch aborted", "line", reader.Line(), "rows", count, "error", err)
			return count, err
		}
		if err := writer.Write(cvr.FeatureRow(company)); err != nil {
			return count, fmt.Errorf("write feature row: %w", err)
		}
		count++
		if count%progressInterval == 0 {
			logger.Debug("export: features written", "companies", count)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, fmt.Errorf("flush feature file: %w", err)
	}
	if err := out.Close(); err != nil {
		return count, fmt.Errorf("close feature file: %w", err)
	}
	logger.Info("export: feature file complete", "path", path, "companies", count)
	return count, nil
}

// CountFields aggregates field-path occurrence counts across every company
// in the dump.
func CountFields(ctx context.Context, reader *source.Reader) (map[string]int, error) {
	logger := common.Logger()
	if reader == nil {
		return nil, errors.New("reader required")
	}
	counts := make(map[string]int)
	companies := 0
	for {
		select {
		case <-ctx.Done():
			return counts, ctx.Err()
		default:
		}
		company, err := reader.NextCompany()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return counts, err
		}
		counts = cvr.MergeFieldCounts(counts, company.FieldCounts())
		companies++
		if companies%progressInterval == 0 {
			logger.Debug("export: fields counted", "companies", companies, "paths", len(counts))
		}
	}
	return counts, nil
}
