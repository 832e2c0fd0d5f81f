package importer

import (
	"io"
	"log"

	"itam-backend/internal/employee/repository"
)

// Service merges uploaded datasets into the record store. Re-uploading
// a corrected or extended spreadsheet is the normal workflow, so the
// merge is additive and idempotent: existing assets are never touched,
// only serial numbers not yet tracked are appended.
type Service struct {
	repo repository.EmployeeRepository
}

func NewService(repo repository.EmployeeRepository) *Service {
	return &Service{repo: repo}
}

// Import validates the whole upload first (all-or-nothing for
// malformed input), then persists record by record. A per-record
// database failure is reported but does not roll back records already
// committed.
func (s *Service) Import(r io.Reader) (*Result, error) {
	staged, err := parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, emp := range staged {
		existing, err := s.repo.FindByEmail(emp.InternetEmail)
		if err != nil {
			result.Failures = append(result.Failures, RecordFailure{Email: emp.InternetEmail, Error: err.Error()})
			continue
		}

		if existing == nil {
			if err := s.repo.Create(emp); err != nil {
				result.Failures = append(result.Failures, RecordFailure{Email: emp.InternetEmail, Error: err.Error()})
				continue
			}
			result.EmployeesCreated++
			result.AssetsAdded += len(emp.Assets)
			continue
		}

		appended, err := s.repo.AppendMissingAssets(emp.InternetEmail, emp.Assets)
		if err != nil {
			result.Failures = append(result.Failures, RecordFailure{Email: emp.InternetEmail, Error: err.Error()})
			continue
		}
		if appended > 0 {
			result.EmployeesUpdated++
			result.AssetsAdded += appended
		}
	}

	log.Printf("[Importer] created=%d updated=%d assets=%d failures=%d",
		result.EmployeesCreated, result.EmployeesUpdated, result.AssetsAdded, len(result.Failures))

	return result, nil
}
