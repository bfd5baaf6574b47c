package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var _ Mailer = (*ResendMailer)(nil)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("mailer not configured: RESEND_API_KEY is unset")

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ResendMailer sends email through the Resend REST API.
// The "from" address must belong to a verified domain.
type ResendMailer struct {
	client *resty.Client
	from   string
	logger *zap.Logger
}

// NewResendMailer builds a mailer; apiKey may be empty, in which case
// every Send fails with ErrNotConfigured and only the dispatcher logs it.
func NewResendMailer(baseURL, apiKey, from string, timeout time.Duration, logger *zap.Logger) *ResendMailer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ResendMailer{client: client, from: from, logger: logger}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if m.client.Token == "" {
		return ErrNotConfigured
	}

	var (
		result  resendResponse
		apiErr  resendError
		request = resendRequest{
			From:    m.from,
			To:      msg.To,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		}
	)

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&result).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("resend rejected message: %s (%s, status %d)", apiErr.Message, apiErr.Name, resp.StatusCode())
	}

	m.logger.Debug("email sent",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", result.ID),
	)
	return nil
}
