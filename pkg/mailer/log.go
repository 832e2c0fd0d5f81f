package mailer

import (
	"context"
	"log"
)

// LogNotifier writes messages to the process log instead of sending
// them. Used when no SES credentials are configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, msg *Message) error {
	if msg.CC != "" {
		log.Printf("[Mailer] (dry-run) to=%s cc=%s subject=%q", msg.To, msg.CC, msg.Subject)
	} else {
		log.Printf("[Mailer] (dry-run) to=%s subject=%q", msg.To, msg.Subject)
	}
	return nil
}
