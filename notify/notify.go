// Package notify delivers donation notifications. Notifiers are invoked
// fire-and-forget by the donation endpoint and never influence the HTTP
// response.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// DonationNote describes one settled donation.
type DonationNote struct {
	DonationID  string
	Amount      float64
	Message     string
	Network     string
	Transaction string
	Payer       string
	Timestamp   time.Time
}

// Notifier delivers a donation notification.
type Notifier interface {
	Donation(ctx context.Context, note DonationNote) error
}

// Noop is a Notifier that does nothing.
type Noop struct{}

func (Noop) Donation(ctx context.Context, note DonationNote) error {
	return nil
}

// SMTPNotifier sends donation emails over SMTP.
type SMTPNotifier struct {
	host     string
	port     int
	user     string
	password string
	from     string
	to       string
}

// NewSMTPNotifier creates an email notifier.
func NewSMTPNotifier(host string, port int, user, password, from, to string) *SMTPNotifier {
	if from == "" {
		from = user
	}
	return &SMTPNotifier{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		to:       to,
	}
}

func (n *SMTPNotifier) Donation(ctx context.Context, note DonationNote) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.user, n.password, n.host)

	msg := buildMessage(n.from, n.to, note)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, n.from, []string{n.to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to string, note DonationNote) []byte {
	message := note.Message
	if message == "" {
		message = "No message"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: New Donation: $%v USDC\r\n", note.Amount)
	b.WriteString("\r\n")
	b.WriteString("New donation received!\r\n\r\n")
	fmt.Fprintf(&b, "Amount: $%v USDC\r\n", note.Amount)
	fmt.Fprintf(&b, "Message: %s\r\n", message)
	fmt.Fprintf(&b, "Network: %s\r\n", note.Network)
	if note.Transaction != "" {
		fmt.Fprintf(&b, "Transaction: %s\r\n", note.Transaction)
	}
	if note.Payer != "" {
		fmt.Fprintf(&b, "Payer: %s\r\n", note.Payer)
	}
	fmt.Fprintf(&b, "Donation ID: %s\r\n", note.DonationID)
	fmt.Fprintf(&b, "Timestamp: %s\r\n", note.Timestamp.Format(time.RFC3339))
	return []byte(b.String())
}
