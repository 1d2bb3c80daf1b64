package mail

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	// ErrNoRecipients is returned when To, Cc and Bcc are all empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when neither the message nor the sender config names a From.
	ErrNoSender = errors.New("mail: no sender provided")
	// ErrHeaderInjection is returned when an address or subject contains a line break.
	ErrHeaderInjection = errors.New("mail: header contains line break")
)

// Message is an email payload.
type Message struct {
	// From overrides the configured default sender.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail sends messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

func (m Message) recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

// check resolves the sender and rejects messages that cannot be sent.
func (m Message) check(defaultFrom string) (string, error) {
	from := m.From
	if from == "" {
		from = defaultFrom
	}
	if from == "" {
		return "", ErrNoSender
	}

	rcpt := m.recipients()
	if len(rcpt) == 0 {
		return "", ErrNoRecipients
	}

	for _, v := range append(rcpt, from, m.Subject) {
		if strings.ContainsAny(v, "\r\n") {
			return "", ErrHeaderInjection
		}
	}
	return from, nil
}
