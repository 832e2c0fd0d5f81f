package repository

import (
	"time"

	"itam-backend/internal/employee/domain"
)

// EmployeeRepository defines data access for the employee record store.
type EmployeeRepository interface {
	// Create persists a new employee with its initial assets.
	Create(emp *domain.Employee) error

	// FindByID finds an employee by primary key, assets included.
	FindByID(id string) (*domain.Employee, error)

	// FindByEmail finds an employee by internetEmail (exact match).
	FindByEmail(email string) (*domain.Employee, error)

	// FindBySerialNumber finds the employee owning the given asset
	// serial number (legacy serial-keyed submission mode).
	FindBySerialNumber(serial string) (*domain.Employee, error)

	// List enumerates every employee with assets, for the dashboard.
	List() ([]*domain.Employee, error)

	// UpdateFields applies arbitrary column updates to one employee.
	UpdateFields(id string, fields map[string]interface{}) error

	DeleteByID(id string) error
	DeleteAll() error

	// AppendMissingAssets adds the subset of assets whose serial number
	// is not already present for the employee. Existing assets are
	// never modified. Returns the number of assets appended.
	AppendMissingAssets(email string, assets []domain.Asset) (int, error)

	// MarkFormOpened flags every asset of the employee as opened.
	MarkFormOpened(employeeID string) error

	// ApplySubmission writes the entered fields, reconciliation
	// statuses and the form-filled marker in one transaction. Returns
	// domain.ErrAlreadySubmitted if the employee is already marked
	// filled at commit time.
	ApplySubmission(emp *domain.Employee) error

	// Campaign-track operations.
	FindUnsent(track domain.Track, limit int) ([]*domain.Employee, error)
	MarkSent(track domain.Track, employeeID string, at time.Time) error
	CountUnsent(track domain.Track) (int64, error)
	ResetFlags(track domain.Track) error
	MaxSentAt(track domain.Track) (*time.Time, error)
}
