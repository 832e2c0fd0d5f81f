package usecase

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"itam-backend/internal/employee/domain"
	"itam-backend/internal/employee/repository"
	"itam-backend/pkg/mailer"
	"itam-backend/pkg/token"
)

// campaignUsecase implements CampaignUsecase
type campaignUsecase struct {
	repo        repository.EmployeeRepository
	notifier    mailer.Notifier
	issuer      *token.Issuer
	formBaseURL string
}

// NewCampaignUsecase creates a new instance of campaignUsecase
func NewCampaignUsecase(repo repository.EmployeeRepository, notifier mailer.Notifier, issuer *token.Issuer, formBaseURL string) CampaignUsecase {
	return &campaignUsecase{
		repo:        repo,
		notifier:    notifier,
		issuer:      issuer,
		formBaseURL: formBaseURL,
	}
}

func (u *campaignUsecase) SendBatch(ctx context.Context, track domain.Track, batchSize int) (*BatchResult, error) {
	employees, err := u.repo.FindUnsent(track, batchSize)
	if err != nil {
		return nil, err
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		sent   int
		failed int
	)

	for _, emp := range employees {
		wg.Add(1)
		go func(emp *domain.Employee) {
			defer wg.Done()
			if err := u.sendOne(ctx, track, emp); err != nil {
				// Flag stays unset so the next batch retries.
				log.Printf("[Campaign] send failed track=%s to=%s: %v", track, emp.InternetEmail, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}(emp)
	}
	wg.Wait()

	remaining, err := u.repo.CountUnsent(track)
	if err != nil {
		return nil, err
	}

	log.Printf("[Campaign] track=%s sent=%d failed=%d remaining=%d", track, sent, failed, remaining)

	return &BatchResult{Sent: sent, Failed: failed, Remaining: remaining}, nil
}

func (u *campaignUsecase) sendOne(ctx context.Context, track domain.Track, emp *domain.Employee) error {
	tok, err := u.issuer.Issue(emp.InternetEmail, token.KindEmail)
	if err != nil {
		return err
	}

	msg := &mailer.Message{
		To:      emp.InternetEmail,
		Subject: mailSubject,
	}
	if track == domain.TrackManager {
		managerEmail := emp.ManagerEmail()
		if managerEmail == "" {
			return fmt.Errorf("no manager email on record for %s", emp.InternetEmail)
		}
		msg.CC = managerEmail
		msg.HTMLBody = buildMailBody(emp.InternetEmail, u.formLink(tok), managerEmail)
	} else {
		msg.HTMLBody = buildMailBody(emp.InternetEmail, u.formLink(tok), "")
	}

	if err := u.notifier.Send(ctx, msg); err != nil {
		return err
	}

	return u.repo.MarkSent(track, emp.ID, time.Now())
}

func (u *campaignUsecase) formLink(tok string) string {
	return u.formBaseURL + "?token=" + url.QueryEscape(tok)
}

func (u *campaignUsecase) Remaining(track domain.Track) (int64, error) {
	return u.repo.CountUnsent(track)
}

func (u *campaignUsecase) ResetFlags(track domain.Track) error {
	return u.repo.ResetFlags(track)
}

func (u *campaignUsecase) MaxTimes() (*MaxSentTimes, error) {
	employeeMax, err := u.repo.MaxSentAt(domain.TrackEmployee)
	if err != nil {
		return nil, err
	}
	managerMax, err := u.repo.MaxSentAt(domain.TrackManager)
	if err != nil {
		return nil, err
	}
	return &MaxSentTimes{
		LastEmailSentAt:        employeeMax,
		LastManagerEmailSentAt: managerMax,
	}, nil
}

const mailSubject = "Mandatory: Physical Verification of Company-Issued Laptops"

// buildMailBody renders the verification notice. managerEmail is empty
// on the employee track.
func buildMailBody(recipientEmail, link, managerEmail string) string {
	name := domain.DisplayName(recipientEmail)

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; color: #333; line-height: 1.6;">`)
	fmt.Fprintf(&b, "<p>Dear %s,</p>", name)
	b.WriteString("<p>As part of our annual asset verification process, a mandatory physical verification of all company-issued laptops is being conducted.</p>")
	if managerEmail != "" {
		fmt.Fprintf(&b, "<p>This is a reminder to verify your laptop details. Your manager (%s) has been informed.</p>", managerEmail)
	}
	b.WriteString("<p><strong>Required Action:</strong></p>")
	b.WriteString("<ul><li>Verify the Laptop Serial Number</li><li>Confirm Make and Model</li><li>Report the Current Condition of the Laptop</li></ul>")
	fmt.Fprintf(&b, `<p style="margin: 20px 0;"><a href="%s" style="display: inline-block; background-color: #1a73e8; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 5px; font-weight: bold;">Complete the Verification Form</a></p>`, link)
	b.WriteString("<p>Warm regards,<br><strong>Asset Management Team</strong></p>")
	b.WriteString("</div>")
	return b.String()
}
