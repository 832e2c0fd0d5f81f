package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"itam-backend/internal/employee/domain"
)

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrInvalidCSV    = errors.New("invalid CSV format")
	ErrMissingColumn = errors.New("required column missing from header")
)

// Required columns; every other known column is optional.
const (
	colInternetEmail = "internetEmail"
	colSerialNumber  = "serialNumber"
)

// optionalAssetColumns map CSV headers to Asset field setters.
var optionalAssetColumns = map[string]func(*domain.Asset, string){
	"itamOrganization":  func(a *domain.Asset, v string) { a.ItamOrganization = v },
	"assetId":           func(a *domain.Asset, v string) { a.AssetTag = v },
	"manufacturerName":  func(a *domain.Asset, v string) { a.ManufacturerName = v },
	"modelVersion":      func(a *domain.Asset, v string) { a.ModelVersion = v },
	"building":          func(a *domain.Asset, v string) { a.Building = v },
	"locationId":        func(a *domain.Asset, v string) { a.LocationID = v },
	"department":        func(a *domain.Asset, v string) { a.Department = v },
	"employeeId":        func(a *domain.Asset, v string) { a.EmployeeNumber = v },
	"managerEmployeeId": func(a *domain.Asset, v string) { a.ManagerEmployeeID = v },
	"managerEmailId":    func(a *domain.Asset, v string) { a.ManagerEmailID = v },
	"assetCondition":    func(a *domain.Asset, v string) { a.AssetCondition = v },
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RowError records one failed validation check.
type RowError struct {
	Row   int    `json:"row"` // 1-based data row number (header excluded)
	Error string `json:"error"`
}

// ValidationError aborts the whole upload: partial import of malformed
// input is forbidden.
type ValidationError struct {
	RowErrors []RowError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("upload rejected: %d invalid rows", len(e.RowErrors))
}

// RecordFailure is a per-record persistence failure reported after
// validation has passed. Records committed before it stay committed.
type RecordFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// Result summarizes a completed import.
type Result struct {
	EmployeesCreated int             `json:"employeesCreated"`
	EmployeesUpdated int             `json:"employeesUpdated"`
	AssetsAdded      int             `json:"assetsAdded"`
	Failures         []RecordFailure `json:"failures,omitempty"`
}

// stagedEmployee is one employee group accumulated from the rows.
type stagedEmployee struct {
	employee *domain.Employee
	serials  map[string]bool
}

// parse reads the tabular input, validates it and stages employee
// groups keyed by internetEmail. Within a group the first occurrence
// of a serial number wins; later duplicates are skipped, not errors.
func parse(r io.Reader) ([]*domain.Employee, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colInternetEmail, colSerialNumber} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	cell := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var (
		staged    []*stagedEmployee
		byEmail   = make(map[string]*stagedEmployee)
		rowErrors []RowError
		row       int
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Error: "malformed row: " + err.Error()})
			continue
		}

		email := cell(record, colInternetEmail)
		if !emailPattern.MatchString(email) {
			rowErrors = append(rowErrors, RowError{Row: row, Error: "malformed internetEmail: " + email})
			continue
		}
		if manager := cell(record, "managerEmailId"); manager != "" && !emailPattern.MatchString(manager) {
			rowErrors = append(rowErrors, RowError{Row: row, Error: "malformed managerEmailId: " + manager})
			continue
		}
		serial := cell(record, colSerialNumber)
		if serial == "" {
			rowErrors = append(rowErrors, RowError{Row: row, Error: "missing serialNumber"})
			continue
		}

		asset := domain.Asset{SerialNumber: serial}
		for name, set := range optionalAssetColumns {
			if v := cell(record, name); v != "" {
				set(&asset, v)
			}
		}

		group, ok := byEmail[email]
		if !ok {
			group = &stagedEmployee{
				employee: &domain.Employee{
					InternetEmail:          email,
					EmailSent:              cell(record, "emailSent") == "true",
					LastEmailSentAt:        parseTime(cell(record, "lastEmailSentAt")),
					ManagerEmailSent:       cell(record, "managerEmailSent") == "true",
					LastManagerEmailSentAt: parseTime(cell(record, "lastManagerEmailSentAt")),
				},
				serials: make(map[string]bool),
			}
			byEmail[email] = group
			staged = append(staged, group)
		}

		// First occurrence of a serial wins within an upload.
		if group.serials[serial] {
			continue
		}
		group.serials[serial] = true
		group.employee.Assets = append(group.employee.Assets, asset)
	}

	if len(rowErrors) > 0 {
		return nil, &ValidationError{RowErrors: rowErrors}
	}
	if len(staged) == 0 {
		return nil, ErrEmptyFile
	}

	employees := make([]*domain.Employee, len(staged))
	for i, g := range staged {
		employees[i] = g.employee
	}
	return employees, nil
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, v); err == nil {
			return &parsed
		}
	}
	return nil
}
