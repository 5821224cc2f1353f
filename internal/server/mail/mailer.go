// Package mail is the outbound e-mail collaborator. The core awaits sends
// and surfaces failures; it never inspects delivery beyond the error.
package mail

import "context"

// Message is a single outbound e-mail.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
