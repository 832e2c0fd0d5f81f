package usecase

import (
	"context"
	"time"

	"itam-backend/internal/employee/domain"
)

// BatchResult reports one campaign batch run.
type BatchResult struct {
	Sent      int   `json:"sent"`
	Failed    int   `json:"failed"`
	Remaining int64 `json:"remaining"`
}

// MaxSentTimes carries the most recent send timestamp per track.
type MaxSentTimes struct {
	LastEmailSentAt        *time.Time `json:"lastEmailSentAt"`
	LastManagerEmailSentAt *time.Time `json:"lastManagerEmailSentAt"`
}

// CampaignUsecase drives the two notification tracks.
type CampaignUsecase interface {
	// SendBatch selects up to batchSize unsent employees for the
	// track, mails each one a freshly tokenized link and flips the
	// track flag on success. Sends fan out concurrently; one
	// recipient's failure never blocks or rolls back the others, and
	// a failed recipient keeps its flag unset so the next batch
	// retries it.
	SendBatch(ctx context.Context, track domain.Track, batchSize int) (*BatchResult, error)

	Remaining(track domain.Track) (int64, error)
	ResetFlags(track domain.Track) error
	MaxTimes() (*MaxSentTimes, error)
}
