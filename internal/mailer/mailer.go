// Package mailer delivers transactional email.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"
)

// Mailer sends a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

var otpTemplate = template.Must(template.New("otp").Parse(`<h2>Password Reset OTP</h2>
<p>Your OTP for password reset is: <strong>{{.Code}}</strong></p>
<p>This OTP expires in {{.Minutes}} minutes.</p>
<p>If you didn't request this, ignore this email.</p>
`))

// OTPEmail renders the password-reset message for code.
func OTPEmail(appName, code string, ttl time.Duration) (subject, body string, err error) {
	var buf bytes.Buffer
	data := struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl.Minutes())}
	if err := otpTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render otp email: %w", err)
	}
	return appName + " Password Reset OTP", buf.String(), nil
}

// LogMailer stands in when no provider is configured. It records the
// recipient and subject only; message bodies may carry secrets.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	slog.Warn("email provider not configured, message not delivered", "to", to, "subject", subject)
	return nil
}
