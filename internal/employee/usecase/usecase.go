package usecase

import (
	"itam-backend/internal/employee/domain"
	"itam-backend/internal/employee/dto"
)

// EmployeeUsecase covers the admin dashboard operations and the
// token-gated form workflow.
type EmployeeUsecase interface {
	// Dashboard enumerates every record for the admin view.
	Dashboard() ([]*domain.Employee, error)

	// UpdateEmployee applies field updates to one record. A field
	// outside the updatable set rejects the whole request.
	UpdateEmployee(id string, fields map[string]interface{}) (*domain.Employee, error)

	DeleteEmployee(id string) error
	DeleteAll() error

	// FormIdentity resolves a form token to the minimal identity the
	// form renders. Already-submitted forms are rejected.
	FormIdentity(tokenString string) (*dto.FormIdentityResponse, error)

	// OpenForm returns the employee's asset count and marks every
	// asset as opened. Already-submitted forms are rejected; the
	// opened marker itself is telemetry, not a gate.
	OpenForm(tokenString string) (int, error)

	// Submit applies the entered values, recomputes reconciliation
	// per asset and persists atomically. Enforces single use via the
	// store-backed form-filled marker.
	Submit(tokenString string, entries []dto.AssetSubmission) error
}
