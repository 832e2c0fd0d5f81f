package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"itam-backend/internal/employee/domain"
	"itam-backend/internal/employee/repository"
	"itam-backend/pkg/mailer"
	"itam-backend/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeNotifier records sent messages and fails addresses on demand.
type fakeNotifier struct {
	mu      sync.Mutex
	sent    []*mailer.Message
	failFor map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: make(map[string]bool)}
}

func (f *fakeNotifier) Send(_ context.Context, msg *mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[msg.To] {
		return errors.New("smtp 550: mailbox unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeNotifier) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

func setupCampaign(t *testing.T, employees int) (CampaignUsecase, repository.EmployeeRepository, *fakeNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A pooled second connection to :memory: would see an empty
	// database, so pin the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Employee{}, &domain.Asset{}))

	repo := repository.NewGormEmployeeRepository(db)
	for i := 0; i < employees; i++ {
		require.NoError(t, repo.Create(&domain.Employee{
			InternetEmail: fmt.Sprintf("user%d@example.com", i),
			Assets: []domain.Asset{{
				SerialNumber:   fmt.Sprintf("SN-%d", i),
				ManagerEmailID: fmt.Sprintf("manager%d@example.com", i),
			}},
		}))
	}

	notifier := newFakeNotifier()
	issuer := token.NewIssuer("test-secret", time.Hour)
	uc := NewCampaignUsecase(repo, notifier, issuer, "https://verify.example.com/form")
	return uc, repo, notifier
}

func TestSendBatchRespectsBatchSize(t *testing.T) {
	uc, repo, notifier := setupCampaign(t, 5)

	result, err := uc.SendBatch(context.Background(), domain.TrackEmployee, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.EqualValues(t, 3, result.Remaining)
	assert.Len(t, notifier.sentTo(), 2)

	// Exactly the two recipients have their flag flipped.
	count, err := repo.CountUnsent(domain.TrackEmployee)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestSendBatchDrainsInWaves(t *testing.T) {
	uc, _, _ := setupCampaign(t, 5)

	total := 0
	for {
		result, err := uc.SendBatch(context.Background(), domain.TrackEmployee, 2)
		require.NoError(t, err)
		total += result.Sent
		if result.Remaining == 0 {
			break
		}
	}
	assert.Equal(t, 5, total)
}

func TestSendBatchFailureIsIsolatedAndRetried(t *testing.T) {
	uc, repo, notifier := setupCampaign(t, 3)
	notifier.failFor["user1@example.com"] = true

	result, err := uc.SendBatch(context.Background(), domain.TrackEmployee, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.EqualValues(t, 1, result.Remaining)

	// The failed recipient's flag is unset, so the next batch is the
	// retry mechanism.
	unsent, err := repo.FindUnsent(domain.TrackEmployee, 10)
	require.NoError(t, err)
	require.Len(t, unsent, 1)
	assert.Equal(t, "user1@example.com", unsent[0].InternetEmail)

	notifier.failFor["user1@example.com"] = false
	result, err = uc.SendBatch(context.Background(), domain.TrackEmployee, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.EqualValues(t, 0, result.Remaining)
}

func TestSendBatchStampsTimestampAndLink(t *testing.T) {
	uc, repo, notifier := setupCampaign(t, 1)

	before := time.Now()
	_, err := uc.SendBatch(context.Background(), domain.TrackEmployee, 1)
	require.NoError(t, err)

	emp, err := repo.FindByEmail("user0@example.com")
	require.NoError(t, err)
	assert.True(t, emp.EmailSent)
	require.NotNil(t, emp.LastEmailSentAt)
	assert.False(t, emp.LastEmailSentAt.Before(before.Truncate(time.Second)))

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].HTMLBody, "https://verify.example.com/form?token=")
	assert.Empty(t, notifier.sent[0].CC)
}

func TestSendBatchManagerTrackCCsManager(t *testing.T) {
	uc, repo, notifier := setupCampaign(t, 2)

	result, err := uc.SendBatch(context.Background(), domain.TrackManager, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)

	for _, msg := range notifier.sent {
		assert.True(t, strings.HasSuffix(msg.CC, "@example.com"))
		assert.Contains(t, msg.HTMLBody, msg.CC)
	}

	// Employee track flags must be untouched.
	count, err := repo.CountUnsent(domain.TrackEmployee)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSendBatchIssuesDistinctTokensPerRecipient(t *testing.T) {
	uc, _, notifier := setupCampaign(t, 3)

	_, err := uc.SendBatch(context.Background(), domain.TrackEmployee, 10)
	require.NoError(t, err)

	links := map[string]bool{}
	for _, msg := range notifier.sent {
		start := strings.Index(msg.HTMLBody, "?token=")
		require.GreaterOrEqual(t, start, 0)
		end := strings.Index(msg.HTMLBody[start:], `"`)
		link := msg.HTMLBody[start : start+end]
		assert.False(t, links[link])
		links[link] = true
	}
}

func TestResetFlagsReopensTrack(t *testing.T) {
	uc, _, _ := setupCampaign(t, 2)

	_, err := uc.SendBatch(context.Background(), domain.TrackEmployee, 10)
	require.NoError(t, err)

	remaining, err := uc.Remaining(domain.TrackEmployee)
	require.NoError(t, err)
	assert.EqualValues(t, 0, remaining)

	require.NoError(t, uc.ResetFlags(domain.TrackEmployee))

	remaining, err = uc.Remaining(domain.TrackEmployee)
	require.NoError(t, err)
	assert.EqualValues(t, 2, remaining)
}

func TestMaxTimes(t *testing.T) {
	uc, _, _ := setupCampaign(t, 1)

	times, err := uc.MaxTimes()
	require.NoError(t, err)
	assert.Nil(t, times.LastEmailSentAt)
	assert.Nil(t, times.LastManagerEmailSentAt)

	_, err = uc.SendBatch(context.Background(), domain.TrackEmployee, 1)
	require.NoError(t, err)

	times, err = uc.MaxTimes()
	require.NoError(t, err)
	require.NotNil(t, times.LastEmailSentAt)
	assert.Nil(t, times.LastManagerEmailSentAt)
}
