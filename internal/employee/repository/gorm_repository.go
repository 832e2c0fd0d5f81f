package repository

import (
	"errors"
	"time"

	"itam-backend/internal/employee/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// managerTrackFilter limits the manager track to employees that
// actually carry a manager address on at least one asset.
const managerTrackFilter = "manager_email_sent = ? AND EXISTS (SELECT 1 FROM assets WHERE assets.employee_id = employees.id AND assets.manager_email_id <> '')"

// gormEmployeeRepository implements EmployeeRepository using GORM
type gormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GORM-based EmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &gormEmployeeRepository{db: db}
}

func (r *gormEmployeeRepository) Create(emp *domain.Employee) error {
	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	for i := range emp.Assets {
		if emp.Assets[i].ID == "" {
			emp.Assets[i].ID = uuid.New().String()
		}
		if emp.Assets[i].Timestamp.IsZero() {
			emp.Assets[i].Timestamp = time.Now()
		}
	}
	err := r.db.Create(emp).Error
	if err != nil && isUniqueViolation(err) {
		return domain.ErrDuplicateSerial
	}
	return err
}

func (r *gormEmployeeRepository) FindByID(id string) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.Preload("Assets").Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *gormEmployeeRepository) FindByEmail(email string) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.Preload("Assets").Where("internet_email = ?", email).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *gormEmployeeRepository) FindBySerialNumber(serial string) (*domain.Employee, error) {
	var asset domain.Asset
	err := r.db.Where("serial_number = ?", serial).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.FindByID(asset.EmployeeID)
}

func (r *gormEmployeeRepository) List() ([]*domain.Employee, error) {
	var employees []*domain.Employee
	err := r.db.Preload("Assets").Order("internet_email").Find(&employees).Error
	return employees, err
}

func (r *gormEmployeeRepository) UpdateFields(id string, fields map[string]interface{}) error {
	result := r.db.Model(&domain.Employee{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormEmployeeRepository) DeleteByID(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&domain.Asset{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Employee{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *gormEmployeeRepository) DeleteAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Asset{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&domain.Employee{}).Error
	})
}

func (r *gormEmployeeRepository) AppendMissingAssets(email string, assets []domain.Asset) (int, error) {
	appended := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var emp domain.Employee
		if err := tx.Preload("Assets").Where("internet_email = ?", email).First(&emp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		existing := make(map[string]bool, len(emp.Assets))
		for _, a := range emp.Assets {
			existing[a.SerialNumber] = true
		}

		for _, asset := range assets {
			if existing[asset.SerialNumber] {
				continue
			}
			asset.ID = uuid.New().String()
			asset.EmployeeID = emp.ID
			if asset.Timestamp.IsZero() {
				asset.Timestamp = time.Now()
			}
			// The unique (employee_id, serial_number) index turns a
			// concurrent append of the same serial into an error
			// instead of a duplicate row.
			if err := tx.Create(&asset).Error; err != nil {
				if isUniqueViolation(err) {
					return domain.ErrDuplicateSerial
				}
				return err
			}
			existing[asset.SerialNumber] = true
			appended++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return appended, nil
}

func (r *gormEmployeeRepository) MarkFormOpened(employeeID string) error {
	return r.db.Model(&domain.Asset{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]interface{}{
			"form_opened": domain.FormOpenedYes,
		}).Error
}

func (r *gormEmployeeRepository) ApplySubmission(emp *domain.Employee) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var current domain.Employee
		if err := tx.Where("id = ?", emp.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if current.FormFilled {
			return domain.ErrAlreadySubmitted
		}

		for i := range emp.Assets {
			asset := &emp.Assets[i]
			err := tx.Model(&domain.Asset{}).Where("id = ?", asset.ID).
				Updates(map[string]interface{}{
					"serial_number_entered":     asset.SerialNumberEntered,
					"manufacturer_name_entered": asset.ManufacturerNameEntered,
					"model_version_entered":     asset.ModelVersionEntered,
					"asset_condition_entered":   asset.AssetConditionEntered,
					"reconciliation_status":     asset.ReconciliationStatus,
					"timestamp":                 asset.Timestamp,
				}).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&domain.Employee{}).Where("id = ?", emp.ID).
			Updates(map[string]interface{}{
				"form_filled":  true,
				"submitted_at": emp.SubmittedAt,
			}).Error
	})
}

func (r *gormEmployeeRepository) FindUnsent(track domain.Track, limit int) ([]*domain.Employee, error) {
	var employees []*domain.Employee
	query := r.db.Preload("Assets").Limit(limit)

	switch track {
	case domain.TrackEmployee:
		query = query.Where("email_sent = ?", false)
	case domain.TrackManager:
		query = query.Where(managerTrackFilter, false)
	default:
		return nil, domain.ErrUnknownTrack
	}

	err := query.Find(&employees).Error
	return employees, err
}

func (r *gormEmployeeRepository) MarkSent(track domain.Track, employeeID string, at time.Time) error {
	var fields map[string]interface{}
	switch track {
	case domain.TrackEmployee:
		fields = map[string]interface{}{"email_sent": true, "last_email_sent_at": at}
	case domain.TrackManager:
		fields = map[string]interface{}{"manager_email_sent": true, "last_manager_email_sent_at": at}
	default:
		return domain.ErrUnknownTrack
	}
	return r.db.Model(&domain.Employee{}).Where("id = ?", employeeID).Updates(fields).Error
}

func (r *gormEmployeeRepository) CountUnsent(track domain.Track) (int64, error) {
	var count int64
	query := r.db.Model(&domain.Employee{})

	switch track {
	case domain.TrackEmployee:
		query = query.Where("email_sent = ?", false)
	case domain.TrackManager:
		query = query.Where("manager_email_sent = ?", false)
	default:
		return 0, domain.ErrUnknownTrack
	}

	err := query.Count(&count).Error
	return count, err
}

func (r *gormEmployeeRepository) ResetFlags(track domain.Track) error {
	var fields map[string]interface{}
	switch track {
	case domain.TrackEmployee:
		fields = map[string]interface{}{"email_sent": false}
	case domain.TrackManager:
		fields = map[string]interface{}{"manager_email_sent": false}
	default:
		return domain.ErrUnknownTrack
	}
	return r.db.Model(&domain.Employee{}).Where("1 = 1").Updates(fields).Error
}

func (r *gormEmployeeRepository) MaxSentAt(track domain.Track) (*time.Time, error) {
	var column string
	switch track {
	case domain.TrackEmployee:
		column = "last_email_sent_at"
	case domain.TrackManager:
		column = "last_manager_email_sent_at"
	default:
		return nil, domain.ErrUnknownTrack
	}

	var result struct {
		Max *time.Time
	}
	err := r.db.Model(&domain.Employee{}).
		Select("MAX(" + column + ") AS max").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.Max, nil
}

// isUniqueViolation matches GORM's translated duplicate-key error.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
