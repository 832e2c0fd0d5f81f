package domain

import (
	"errors"
	"strings"
	"time"
)

// Reconciliation verdicts and form-opened markers are stored as the
// literal strings the reporting side expects.
const (
	ReconciliationYes = "Yes"
	ReconciliationNo  = "No"
	FormOpenedYes     = "Yes"
)

// Track selects one of the two independent notification campaigns.
type Track string

const (
	TrackEmployee Track = "employee"
	TrackManager  Track = "manager"
)

var (
	ErrNotFound         = errors.New("employee not found")
	ErrDuplicateSerial  = errors.New("duplicate serial number for employee")
	ErrAlreadySubmitted = errors.New("form already submitted")
	ErrUnknownTrack     = errors.New("unknown campaign track")
	ErrUnknownField     = errors.New("unknown field")
)

// Employee is the aggregate root. It owns its assets exclusively; no
// asset exists independent of its employee.
type Employee struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	InternetEmail string  `json:"internetEmail" gorm:"uniqueIndex;not null"`
	Assets        []Asset `json:"assets" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`

	// Employee-facing campaign track.
	EmailSent       bool       `json:"emailSent" gorm:"default:false"`
	LastEmailSentAt *time.Time `json:"lastEmailSentAt,omitempty"`

	// Manager-CC campaign track.
	ManagerEmailSent       bool       `json:"managerEmailSent" gorm:"default:false"`
	LastManagerEmailSentAt *time.Time `json:"lastManagerEmailSentAt,omitempty"`

	// Store-backed single-use marker for the verification form.
	FormFilled  bool       `json:"formFilled" gorm:"default:false"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Asset is a child entity identified within its employee by serial
// number. Ground-truth fields are set at import and never changed;
// *-Entered fields are written only by form submission.
type Asset struct {
	ID         string `json:"id" gorm:"primaryKey"`
	EmployeeID string `json:"-" gorm:"index;not null;uniqueIndex:idx_employee_serial"`

	// Ground truth from the source system.
	SerialNumber      string `json:"serialNumber" gorm:"not null;uniqueIndex:idx_employee_serial"`
	ManufacturerName  string `json:"manufacturerName"`
	ModelVersion      string `json:"modelVersion"`
	AssetCondition    string `json:"assetCondition"`
	ItamOrganization  string `json:"itamOrganization"`
	AssetTag          string `json:"assetId"`
	Building          string `json:"building"`
	LocationID        string `json:"locationId"`
	Department        string `json:"department"`
	EmployeeNumber    string `json:"employeeId"`
	ManagerEmployeeID string `json:"managerEmployeeId"`
	ManagerEmailID    string `json:"managerEmailId"`

	// Supplied by the recipient through the verification form.
	SerialNumberEntered     string `json:"serialNumberEntered"`
	ManufacturerNameEntered string `json:"manufacturerNameEntered"`
	ModelVersionEntered     string `json:"modelVersionEntered"`
	AssetConditionEntered   string `json:"assetConditionEntered"`

	// Derived and telemetry fields.
	ReconciliationStatus string    `json:"reconciliationStatus"`
	FormOpened           string    `json:"formOpened"`
	Timestamp            time.Time `json:"timestamp"`
}

// ManagerEmail returns the manager address carried by the first asset
// that has one, or "" if no asset names a manager.
func (e *Employee) ManagerEmail() string {
	for _, a := range e.Assets {
		if a.ManagerEmailID != "" {
			return a.ManagerEmailID
		}
	}
	return ""
}

// HasSerial reports whether any owned asset carries the serial number.
func (e *Employee) HasSerial(serial string) bool {
	for _, a := range e.Assets {
		if a.SerialNumber == serial {
			return true
		}
	}
	return false
}

// DisplayName derives a readable name from an email's local part. The
// notification copy and the form greeting both address recipients this
// way: dots and underscores become spaces, each word is capitalized.
func DisplayName(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Reconcile compares the asset's ground-truth fields against the
// entered values and returns the verdict. All four compared fields
// must match for a "Yes".
func (a *Asset) Reconcile() string {
	if a.SerialNumber == a.SerialNumberEntered &&
		a.ManufacturerName == a.ManufacturerNameEntered &&
		a.ModelVersion == a.ModelVersionEntered &&
		a.AssetCondition == a.AssetConditionEntered {
		return ReconciliationYes
	}
	return ReconciliationNo
}
