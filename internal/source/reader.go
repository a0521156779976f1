// File path: internal/source/reader.go

// Package source reads CVR dump files: JSONL datasets with one record per
// line, optionally gzip-compressed. Readers are lazy and forward-only; a
// consumed reader is restarted by reopening the file.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/nordicdata/cvrminer/internal/cvr"
)

// ParseError reports a malformed dataset entry. Iteration stops at the
// offending line; no records beyond it are yielded.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse record at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader produces raw records from a dump file one at a time. It owns the
// underlying file handle until Close is called.
type Reader struct {
	path    string
	file    *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
	line    int
}

// Open prepares a dump file for reading. Paths ending in .gz are
// transparently decompressed; a missing plain path falls back to an
// existing .gz sibling, matching how the dumps are distributed. A missing
// path surfaces an error wrapping fs.ErrNotExist.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || strings.HasSuffix(path, ".gz") {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		sibling, siblingErr := os.Open(path + ".gz")
		if siblingErr != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		file = sibling
		path += ".gz"
	}
	reader := &Reader{path: path, file: file}
	var stream io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		reader.gz = gz
		stream = gz
	}
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	reader.scanner = scanner
	return reader, nil
}

// Next returns the next raw record in file order, io.EOF once the dataset
// is exhausted, or a *ParseError when an entry cannot be decoded.
func (r *Reader) Next() (*cvr.Record, error) {
	if r == nil || r.scanner == nil {
		return nil, errors.New("reader not initialised")
	}
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var record cvr.Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, &ParseError{Line: r.line, Err: err}
		}
		return &record, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dataset: %w", err)
	}
	return nil, io.EOF
}

// NextCompany advances to the next company record, skipping the meta entry
// and production-unit/participant records.
func (r *Reader) NextCompany() (*cvr.Virksomhed, error) {
	for {
		record, err := r.Next()
		if err != nil {
			return nil, err
		}
		if company, ok := record.Company(); ok {
			return company, nil
		}
	}
}

// Path returns the path actually opened, including any .gz fallback.
func (r *Reader) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	if r == nil {
		return 0
	}
	return r.line
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			r.file.Close()
			return fmt.Errorf("close gzip stream: %w", err)
		}
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}
	return nil
}
