// Package mail delivers transactional email through the Resend HTTP API.
package mail

import "context"

// Message is one outbound email. Both HTML and text bodies are sent;
// some inboxes only render one of the two.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends a single message. Implementations report delivery
// failure through the returned error and nothing else.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
