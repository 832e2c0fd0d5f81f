package usecase

import (
	"fmt"
	"time"

	"itam-backend/internal/employee/domain"
	"itam-backend/internal/employee/dto"
	"itam-backend/internal/employee/repository"
	"itam-backend/pkg/token"
)

// updatableFields maps the JSON names accepted by the admin update
// endpoint to their columns. internetEmail is immutable and therefore
// absent; submission fields belong to the form path only.
var updatableFields = map[string]string{
	"emailSent":              "email_sent",
	"lastEmailSentAt":        "last_email_sent_at",
	"managerEmailSent":       "manager_email_sent",
	"lastManagerEmailSentAt": "last_manager_email_sent_at",
	"formFilled":             "form_filled",
	"submittedAt":            "submitted_at",
}

// employeeUsecase implements EmployeeUsecase
type employeeUsecase struct {
	repo   repository.EmployeeRepository
	issuer *token.Issuer
}

// NewEmployeeUsecase creates a new instance of employeeUsecase
func NewEmployeeUsecase(repo repository.EmployeeRepository, issuer *token.Issuer) EmployeeUsecase {
	return &employeeUsecase{repo: repo, issuer: issuer}
}

func (u *employeeUsecase) Dashboard() ([]*domain.Employee, error) {
	return u.repo.List()
}

func (u *employeeUsecase) UpdateEmployee(id string, fields map[string]interface{}) (*domain.Employee, error) {
	columns := make(map[string]interface{})
	for name, value := range fields {
		column, ok := updatableFields[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownField, name)
		}
		columns[column] = value
	}
	if len(columns) > 0 {
		if err := u.repo.UpdateFields(id, columns); err != nil {
			return nil, err
		}
	}

	emp, err := u.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	return emp, nil
}

func (u *employeeUsecase) DeleteEmployee(id string) error {
	return u.repo.DeleteByID(id)
}

func (u *employeeUsecase) DeleteAll() error {
	return u.repo.DeleteAll()
}

func (u *employeeUsecase) FormIdentity(tokenString string) (*dto.FormIdentityResponse, error) {
	emp, err := u.resolve(tokenString)
	if err != nil {
		return nil, err
	}
	if emp.FormFilled {
		return nil, domain.ErrAlreadySubmitted
	}

	return &dto.FormIdentityResponse{
		Name:  domain.DisplayName(emp.InternetEmail),
		Email: emp.InternetEmail,
	}, nil
}

func (u *employeeUsecase) OpenForm(tokenString string) (int, error) {
	emp, err := u.resolve(tokenString)
	if err != nil {
		return 0, err
	}
	if emp.FormFilled {
		return 0, domain.ErrAlreadySubmitted
	}

	if err := u.repo.MarkFormOpened(emp.ID); err != nil {
		return 0, err
	}
	return len(emp.Assets), nil
}

func (u *employeeUsecase) Submit(tokenString string, entries []dto.AssetSubmission) error {
	emp, err := u.resolve(tokenString)
	if err != nil {
		return err
	}
	if emp.FormFilled {
		return domain.ErrAlreadySubmitted
	}

	bySerial := make(map[string]int, len(emp.Assets))
	for i, a := range emp.Assets {
		bySerial[a.SerialNumber] = i
	}

	// Entries are keyed by serial number first; entries whose serial
	// matches nothing fall back to their position, but never onto an
	// asset another entry already claimed.
	assigned := make(map[int]int, len(entries))
	taken := make(map[int]bool, len(emp.Assets))
	for i, entry := range entries {
		if idx, ok := bySerial[entry.SerialNumber]; ok {
			assigned[i] = idx
			taken[idx] = true
		}
	}
	for i, entry := range entries {
		if _, ok := bySerial[entry.SerialNumber]; ok {
			continue
		}
		if i >= len(emp.Assets) || taken[i] {
			continue
		}
		assigned[i] = i
		taken[i] = true
	}

	now := time.Now()
	for i, entry := range entries {
		idx, ok := assigned[i]
		if !ok {
			continue
		}

		asset := &emp.Assets[idx]
		asset.SerialNumberEntered = entry.SerialNumber
		asset.ManufacturerNameEntered = entry.ManufacturerNameEntered
		asset.ModelVersionEntered = entry.ModelVersionEntered
		asset.AssetConditionEntered = entry.AssetConditionEntered
		asset.ReconciliationStatus = asset.Reconcile()
		asset.Timestamp = now
	}

	emp.SubmittedAt = &now
	return u.repo.ApplySubmission(emp)
}

// resolve verifies the token and loads the employee it refers to.
func (u *employeeUsecase) resolve(tokenString string) (*domain.Employee, error) {
	claims, err := u.issuer.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	var emp *domain.Employee
	switch claims.Kind {
	case token.KindSerial:
		emp, err = u.repo.FindBySerialNumber(claims.Identifier)
	default:
		emp, err = u.repo.FindByEmail(claims.Identifier)
	}
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	return emp, nil
}
