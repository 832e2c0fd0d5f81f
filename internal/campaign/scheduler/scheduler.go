package scheduler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"itam-backend/internal/campaign/usecase"
	"itam-backend/internal/employee/domain"
)

// CampaignScheduler periodically re-runs the send batches so records
// that failed or arrived after the last run get their notification.
type CampaignScheduler struct {
	campaign  usecase.CampaignUsecase
	interval  time.Duration
	batchSize int
	running   atomic.Bool
	stopChan  chan struct{}
}

// NewCampaignScheduler creates a new scheduler
func NewCampaignScheduler(campaign usecase.CampaignUsecase, interval time.Duration, batchSize int) *CampaignScheduler {
	return &CampaignScheduler{
		campaign:  campaign,
		interval:  interval,
		batchSize: batchSize,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *CampaignScheduler) Start() {
	log.Printf("[Scheduler] Starting campaign scheduler (interval: %s, batch: %d)", s.interval, s.batchSize)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *CampaignScheduler) Stop() {
	close(s.stopChan)
}

// runOnce triggers both tracks. Flag flips are idempotent so an
// overlapping run would not corrupt state, but skipping is cheaper.
func (s *CampaignScheduler) runOnce() {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("[Scheduler] Previous run still in progress, skipping")
		return
	}
	defer s.running.Store(false)

	ctx := context.Background()
	for _, track := range []domain.Track{domain.TrackEmployee, domain.TrackManager} {
		result, err := s.campaign.SendBatch(ctx, track, s.batchSize)
		if err != nil {
			log.Printf("[Scheduler] Error running %s batch: %v", track, err)
			continue
		}
		if result.Sent > 0 || result.Failed > 0 {
			log.Printf("[Scheduler] track=%s sent=%d failed=%d remaining=%d", track, result.Sent, result.Failed, result.Remaining)
		}
	}
}
