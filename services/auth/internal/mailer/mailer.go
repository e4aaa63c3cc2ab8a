package mailer

import (
	"context"
	"fmt"
	"time"
)

const sendTimeout = 10 * time.Second

// Mailer renders lifecycle emails and hands them to a Sender.
type Mailer struct {
	sender  Sender
	codeTTL time.Duration
}

func New(sender Sender, codeTTL time.Duration) *Mailer {
	return &Mailer{sender: sender, codeTTL: codeTTL}
}

func (m *Mailer) SendSignupCode(ctx context.Context, toEmail, toName, code string) error {
	data := templateData{Name: toName, Code: code, ExpiresIn: humanizeTTL(m.codeTTL)}
	html, err := render(signupCodeTmpl, data)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Hi %s,\n\nYour JobIQ CARE verification code is: %s\n\nThis code will expire in %s. Please do not share it with anyone.",
		toName, code, data.ExpiresIn)

	return m.send(ctx, Message{ToEmail: toEmail, ToName: toName, Subject: SubjectSignupCode, Text: text, HTML: html})
}

func (m *Mailer) SendWelcome(ctx context.Context, toEmail, toName string) error {
	if toName == "" {
		toName = "User"
	}
	html, err := render(welcomeTmpl, templateData{Name: toName})
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Hi %s,\n\nCongratulations! Your JobIQ CARE account has been successfully created and verified.", toName)

	return m.send(ctx, Message{ToEmail: toEmail, ToName: toName, Subject: SubjectWelcome, Text: text, HTML: html})
}

func (m *Mailer) SendResetCode(ctx context.Context, toEmail, code string) error {
	data := templateData{Code: code, ExpiresIn: humanizeTTL(m.codeTTL)}
	html, err := render(resetCodeTmpl, data)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("We received a password reset request for your JobIQ CARE account.\n\nYour OTP is: %s\n\nThis code will expire in %s.",
		code, data.ExpiresIn)

	return m.send(ctx, Message{ToEmail: toEmail, Subject: SubjectResetCode, Text: text, HTML: html})
}

func (m *Mailer) send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return m.sender.Send(ctx, msg)
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d <= 0:
		return "a few minutes"
	case d == time.Minute:
		return "1 minute"
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
}
