package adapter

import "context"

// CelebrationEmail is a rendered celebration ready for delivery.
type CelebrationEmail struct {
	Recipient     string
	RecipientName string
	Subject       string
	HTML          string
	Text          string
	// Celebration names the effect, e.g. "goal_achieved". Providers may use
	// it as a delivery tag.
	Celebration string
}

// DeliveryReceipt identifies a delivered e-mail at the provider.
type DeliveryReceipt struct {
	MessageID string
}

// EmailSender delivers celebration e-mails through an external provider.
type EmailSender interface {
	// Send delivers the e-mail once. Callers do not retry.
	Send(ctx context.Context, email CelebrationEmail) (*DeliveryReceipt, error)
}
