package mailer

import "context"

// Message is one outbound notification.
type Message struct {
	To       string
	CC       string // optional
	Subject  string
	HTMLBody string
}

// Notifier delivers notifications. Core logic never constructs a
// concrete transport; it is injected so tests can substitute a fake.
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}
