// Package email provides email sending functionality via Resend.
package email

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/resend/resend-go/v2"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
)

// ResendClient delivers celebration e-mails through Resend.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers one celebration e-mail, tagged with its celebration name.
func (c *ResendClient) Send(ctx context.Context, input adapter.CelebrationEmail) (*adapter.DeliveryReceipt, error) {
	if input.Recipient == "" {
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeMissingRecipient,
			"email recipient is required",
			domainerror.ErrMissingRecipient,
		)
	}

	params := &resend.SendEmailRequest{
		From:    mailbox(c.fromName, c.fromEmail),
		To:      []string{mailbox(input.RecipientName, input.Recipient)},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	}
	if input.Celebration != "" {
		params.Tags = []resend.Tag{{Name: "celebration", Value: input.Celebration}}
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		if isPermanentError(err) {
			return nil, domainerror.NewEmailError(
				domainerror.ErrCodePermanentEmailFailure,
				"permanent email failure",
				fmt.Errorf("%w: %w", domainerror.ErrPermanentEmailFailure, err),
			)
		}
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeTemporaryEmailFailure,
			"temporary email failure",
			fmt.Errorf("%w: %w", domainerror.ErrTemporaryEmailFailure, err),
		)
	}

	return &adapter.DeliveryReceipt{MessageID: resp.Id}, nil
}

func mailbox(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// permanentMarkers appear in Resend errors that a later celebration would
// hit again: bad key, unverified sender, rejected payload.
var permanentMarkers = []string{"401", "403", "422", "unauthorized", "forbidden", "validation", "invalid"}

func isPermanentError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// MockEmailSender records celebrations instead of delivering them.
type MockEmailSender struct {
	mu        sync.Mutex
	delivered []adapter.CelebrationEmail
	FailError error
}

// NewMockEmailSender creates a new mock email sender.
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

// Send records the e-mail, or fails with FailError when set.
func (m *MockEmailSender) Send(_ context.Context, input adapter.CelebrationEmail) (*adapter.DeliveryReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailError != nil {
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeTemporaryEmailFailure,
			"mock temporary failure",
			m.FailError,
		)
	}

	m.delivered = append(m.delivered, input)
	return &adapter.DeliveryReceipt{MessageID: fmt.Sprintf("mock-%d", len(m.delivered))}, nil
}

// Sent returns a copy of the recorded e-mails.
func (m *MockEmailSender) Sent() []adapter.CelebrationEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]adapter.CelebrationEmail, len(m.delivered))
	copy(out, m.delivered)
	return out
}

// Reset forgets recorded e-mails and the configured failure.
func (m *MockEmailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.delivered = nil
	m.FailError = nil
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = (*MockEmailSender)(nil)
)
