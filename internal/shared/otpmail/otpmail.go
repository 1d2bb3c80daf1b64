// Package otpmail renders the email that carries a one-time code.
package otpmail

import (
	"bytes"
	"errors"
	"html/template"
	"math"
	"time"

	"github.com/shandysiswandi/bazaar/internal/pkg/mail"
)

var ErrNoCode = errors.New("otpmail: code is empty")

var subjects = map[string]string{
	"register": "Your verification code",
	"reset":    "Your password reset code",
}

var body = template.Must(template.New("otp").Parse(
	`<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>` +
		`<p>Your OTP code is: <strong>{{.Code}}</strong>. It will expire in {{.Minutes}} {{if eq .Minutes 1}}minute{{else}}minutes{{end}}.</p>` +
		`{{if eq .Purpose "reset"}}<p>If you did not ask to reset your password, ignore this email.</p>{{end}}`,
))

// Input describes one code delivery.
type Input struct {
	To          string
	DisplayName string
	Purpose     string
	Code        string
	Validity    time.Duration
}

// Compose builds the message for in. Validity is rounded up to whole minutes.
func Compose(in Input) (mail.Message, error) {
	if in.Code == "" {
		return mail.Message{}, ErrNoCode
	}

	subject, ok := subjects[in.Purpose]
	if !ok {
		subject = "Your verification code"
	}

	minutes := int(math.Ceil(in.Validity.Minutes()))
	if minutes < 1 {
		minutes = 1
	}

	var buf bytes.Buffer
	err := body.Execute(&buf, map[string]any{
		"Name":    in.DisplayName,
		"Purpose": in.Purpose,
		"Code":    in.Code,
		"Minutes": minutes,
	})
	if err != nil {
		return mail.Message{}, err
	}

	return mail.Message{
		To:       []string{in.To},
		Subject:  subject,
		HTMLBody: buf.String(),
	}, nil
}
