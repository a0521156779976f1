// File path: internal/catalog/types.go
package catalog

import "time"

// Company represents a catalogued company row.
type Company struct {
	ID                   int64     `db:"id"`
	CVRNumber            int64     `db:"cvr_number"`
	Name                 string    `db:"name"`
	CompanyForm          string    `db:"company_form"`
	CompositeStatus      string    `db:"composite_status"`
	IndustryCode         string    `db:"industry_code"`
	IndustryText         string    `db:"industry_text"`
	EmployeeCount        int       `db:"employee_count"`
	ProductionUnits      int       `db:"production_units"`
	FoundedYear          int       `db:"founded_year"`
	AdvertisingProtected bool      `db:"advertising_protected"`
	Raw                  string    `db:"raw"`
	CreatedAt            time.Time `db:"created_at"`
}

// CompanySummary is the listing projection returned by Companies.
type CompanySummary struct {
	CVRNumber       int64  `db:"cvr_number" json:"cvr_number"`
	Name            string `db:"name" json:"name"`
	CompositeStatus string `db:"composite_status" json:"composite_status"`
}
