package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	SubjectSignupCode = "Your JobIQ CARE Verification Code"
	SubjectWelcome    = "🎉 Welcome to JobIQ CARE!"
	SubjectResetCode  = "JobIQ CARE Password Reset Code"
)

const cardOpen = `<div style="font-family: 'Poppins', sans-serif; background-color: #f6f8fa; padding: 20px;">
  <div style="max-width: 500px; background: white; margin: auto; border-radius: 12px; box-shadow: 0 2px 10px rgba(0,0,0,0.08); padding: 25px;">`

const cardClose = `
  </div>
</div>`

const codeBox = `<div style="background:#e8f6f5; color:#468189; text-align:center; font-size:1.8rem; font-weight:700; letter-spacing:3px; padding:15px; border-radius:10px; margin:15px 0;">{{.Code}}</div>`

var (
	signupCodeTmpl = template.Must(template.New("signup").Parse(cardOpen + `
    <div style="text-align: center; border-bottom: 2px solid #468189; padding-bottom: 10px; margin-bottom: 20px;">
      <h2 style="color:#468189; margin:0;">JobIQ <span style="color:#2d5c5f;">CARE</span></h2>
    </div>
    <p style="font-size:1rem; color:#333;">Hi <strong>{{.Name}}</strong>,</p>
    <p style="font-size:1rem; color:#333;">Your one-time verification code is:</p>
    ` + codeBox + `
    <p style="color:#555; font-size:0.95rem;">This code will expire in <strong>{{.ExpiresIn}}</strong>.</p>
    <p style="color:#777; font-size:0.9rem;">Please do not share this code with anyone.</p>
    <hr style="border:none; border-top:1px solid #eee; margin:20px 0;">
    <p style="font-size:0.9rem; text-align:center; color:#777;">
      Thank you for joining <strong>JobIQ CARE</strong>, AI for your career success.
    </p>` + cardClose))

	welcomeTmpl = template.Must(template.New("welcome").Parse(cardOpen + `
    <div style="text-align:center; border-bottom:2px solid #468189; padding-bottom:10px; margin-bottom:20px;">
      <h2 style="color:#468189; margin:0;">Welcome to <span style="color:#2d5c5f;">JobIQ CARE</span> 🎉</h2>
    </div>
    <p style="font-size:1rem; color:#333;">Hi <strong>{{.Name}}</strong>,</p>
    <p style="font-size:1rem; color:#333;">Congratulations! Your JobIQ CARE account has been successfully created and verified.</p>
    <p style="font-size:0.95rem; color:#555;">You're now ready to explore personalized career recommendations powered by AI.</p>
    <hr style="border:none; border-top:1px solid #eee; margin:20px 0;">
    <p style="font-size:0.9rem; text-align:center; color:#777;">🚀 <strong>JobIQ CARE</strong>, AI for your career success.</p>` + cardClose))

	resetCodeTmpl = template.Must(template.New("reset").Parse(cardOpen + `
    <div style="text-align: center; border-bottom: 2px solid #468189; padding-bottom: 10px; margin-bottom: 20px;">
      <h2 style="color:#468189; margin:0;">JobIQ <span style="color:#2d5c5f;">CARE</span></h2>
    </div>
    <p>We received a password reset request for your JobIQ CARE account.</p>
    <p>Your OTP is:</p>
    ` + codeBox + `
    <p>This code will expire in <strong>{{.ExpiresIn}}</strong>.</p>` + cardClose))
)

type templateData struct {
	Name      string
	Code      string
	ExpiresIn string
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}
