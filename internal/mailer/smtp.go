package mailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
)

// Client is the subset of *smtp.Client the mailer drives.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transport opens authenticated SMTP sessions.
type Transport interface {
	Connect(ctx context.Context) (Client, error)
	Sender() string
}

// SMTPTransport dials host:port, upgrades with STARTTLS and authenticates with PLAIN.
type SMTPTransport struct {
	host     string
	port     string
	user     string
	password string
}

func NewSMTPTransport(host, port, user, password string) *SMTPTransport {
	return &SMTPTransport{host: host, port: port, user: user, password: password}
}

func (t *SMTPTransport) Sender() string {
	return t.user
}

func (t *SMTPTransport) Connect(ctx context.Context) (Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(t.host, t.port))
	if err != nil {
		return nil, fmt.Errorf("dial smtp: %w", err)
	}
	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(nil); err != nil {
			client.Close()
			return nil, fmt.Errorf("starttls: %w", err)
		}
	}
	if err := client.Auth(smtp.PlainAuth("", t.user, t.password, t.host)); err != nil {
		client.Close()
		return nil, fmt.Errorf("smtp auth: %w", err)
	}
	return client, nil
}

type SMTPMailer struct {
	transport Transport
	from      string
}

// NewSMTPMailer sends as from, or as the transport's account when from is empty.
func NewSMTPMailer(transport Transport, from string) *SMTPMailer {
	if from == "" {
		from = transport.Sender()
	}
	return &SMTPMailer{transport: transport, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	client, err := m.transport.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(m.transport.Sender()); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		wc.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp QUIT: %w", err)
	}

	slog.Info("email sent", "provider", "smtp", "to", to)
	return nil
}
