package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// Notification is what a member's action tells the rest of the couple.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// CoupleNotificationEmailData holds data for the couple notification email.
type CoupleNotificationEmailData struct {
	Email    string
	Nickname string
	Title    string
	Body     string
	URL      string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCoupleNotification(ctx context.Context, data *CoupleNotificationEmailData) error
}

// Notifier delivers notifications to couple members. It is fire-and-forget: delivery
// failures are logged by the implementation and never reach the caller.
type Notifier interface {
	NotifyCoupleMembers(ctx context.Context, coupleID, excludeUserID string, n Notification)
}
