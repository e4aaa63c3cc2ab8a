package mailer

import "context"

// Service sends the account lifecycle emails.
type Service interface {
	SendSignupCode(ctx context.Context, toEmail, toName, code string) error
	SendWelcome(ctx context.Context, toEmail, toName string) error
	SendResetCode(ctx context.Context, toEmail, code string) error
}

type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one rendered message. Implementations: SMTP, MailerSend, dev.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
