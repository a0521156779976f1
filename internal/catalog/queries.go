// File path: internal/catalog/queries.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/nordicdata/cvrminer/internal/common"
	"github.com/nordicdata/cvrminer/internal/cvr"
	"github.com/nordicdata/cvrminer/internal/source"
)

const buildProgressInterval = 1000

// Build ingests every company record from the reader into the catalog.
// Records whose CVR number is already catalogued are skipped, so rebuilding
// from an overlapping dump is idempotent. The returned count is the number
// of newly inserted companies.
func (s *Store) Build(ctx context.Context, reader *source.Reader) (int, error) {
	logger := common.Logger()
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	if reader == nil {
		return 0, errors.New("reader required")
	}
	inserted := 0
	seen := 0
	for {
		select {
		case <-ctx.Done():
			return inserted, ctx.Err()
		default:
		}
		company, err := reader.NextCompany()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error("catalog: build aborted", "line", reader.Line(), "inserted", inserted, "error", err)
			return inserted, err
		}
		ok, err := s.InsertCompany(ctx, company)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
		seen++
		if seen%buildProgressInterval == 0 {
			logger.Debug("catalog: companies ingested", "seen", seen, "inserted", inserted)
		}
	}
	logger.Info("catalog: build complete", "seen", seen, "inserted", inserted)
	return inserted, nil
}

// InsertCompany stores one company and its purposes. It reports false when
// the CVR number is already catalogued.
func (s *Store) InsertCompany(ctx context.Context, company *cvr.Virksomhed) (bool, error) {
	if err := s.ensureReady(); err != nil {
		return false, err
	}
	if company == nil {
		return false, errors.New("company required")
	}
	raw, err := json.Marshal(company.Payload())
	if err != nil {
		return false, fmt.Errorf("encode company payload: %w", err)
	}
	inserted := false
	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO companies (
        cvr_number, name, company_form, composite_status,
        industry_code, industry_text, employee_count, production_units,
        founded_year, advertising_protected, raw)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			company.CVRNumber(), company.Name(), company.CompanyForm(),
			company.CompositeStatus(), company.IndustryCode(), company.IndustryText(),
			company.EmployeeCount(), company.ProductionUnitCount(),
			company.FoundedYear(), company.AdvertisingProtected(), string(raw))
		if err != nil {
			return fmt.Errorf("insert company %d: %w", company.CVRNumber(), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert company %d: %w", company.CVRNumber(), err)
		}
		if affected == 0 {
			return nil
		}
		inserted = true
		companyID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert company %d: %w", company.CVRNumber(), err)
		}
		for sequence, purpose := range company.Purposes() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO purposes (company_id, sequence, purpose) VALUES (?, ?, ?)`,
				companyID, sequence, purpose); err != nil {
				return fmt.Errorf("insert purpose for %d: %w", company.CVRNumber(), err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Count returns the number of catalogued companies.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM companies`); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}

// Company returns the raw payload of the company with the given CVR number.
func (s *Store) Company(ctx context.Context, cvrNumber int64) (map[string]interface{}, error) {
	row, err := s.CompanyRow(ctx, cvrNumber)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(row.Raw), &payload); err != nil {
		return nil, fmt.Errorf("decode company %d: %w", cvrNumber, err)
	}
	return payload, nil
}

// CompanyRow returns the catalogued row for one CVR number.
func (s *Store) CompanyRow(ctx context.Context, cvrNumber int64) (*Company, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var company Company
	err := s.db.GetContext(ctx, &company, `SELECT * FROM companies WHERE cvr_number = ?`, cvrNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select company %d: %w", cvrNumber, err)
	}
	return &company, nil
}

// Features returns the feature row of the company with the given CVR number.
func (s *Store) Features(ctx context.Context, cvrNumber int64) (map[string]interface{}, error) {
	payload, err := s.Company(ctx, cvrNumber)
	if err != nil {
		return nil, err
	}
	return cvr.Features(cvr.NewVirksomhed(payload)), nil
}

// Purposes returns the stored purposes of one company in registration order.
func (s *Store) Purposes(ctx context.Context, cvrNumber int64) ([]string, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	purposes := []string{}
	err := s.db.SelectContext(ctx, &purposes, `
SELECT p.purpose FROM purposes p
INNER JOIN companies c ON c.id = p.company_id
WHERE c.cvr_number = ?
ORDER BY p.sequence`, cvrNumber)
	if err != nil {
		return nil, fmt.Errorf("select purposes for %d: %w", cvrNumber, err)
	}
	return purposes, nil
}

// AllPurposes returns every stored purpose, ordered by company and sequence.
func (s *Store) AllPurposes(ctx context.Context) ([]string, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	purposes := []string{}
	err := s.db.SelectContext(ctx, &purposes, `
SELECT p.purpose FROM purposes p
INNER JOIN companies c ON c.id = p.company_id
ORDER BY c.cvr_number, p.sequence`)
	if err != nil {
		return nil, fmt.Errorf("select purposes: %w", err)
	}
	return purposes, nil
}

// Companies returns a paged listing of catalogued companies ordered by CVR
// number.
func (s *Store) Companies(ctx context.Context, limit, offset int) ([]CompanySummary, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	summaries := []CompanySummary{}
	err := s.db.SelectContext(ctx, &summaries, `
SELECT cvr_number, name, composite_status FROM companies
ORDER BY cvr_number
LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select companies: %w", err)
	}
	return summaries, nil
}
