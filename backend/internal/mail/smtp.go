package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/google/uuid"
)

type SMTP struct {
	config *config.Email
	auth   smtp.Auth
	now    func() time.Time
}

func NewSMTP(config *config.Email) *SMTP {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)
	return &SMTP{
		config: config,
		auth:   auth,
		now:    time.Now,
	}
}

// Send delivers a plain-text message and returns its Message-ID.
func (e *SMTP) Send(ctx context.Context, to, subject, body string) (string, error) {
	msgID := generateMessageID(senderDomain(e.config.Username))
	msg := e.buildMessage(msgID, to, subject, body)
	address := fmt.Sprintf("%s:%d", e.config.SMTPServer, e.config.SMTPPort)

	conn, err := e.dial(ctx, address)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return "", err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return "", err
	}
	defer client.Close()

	// Port 465 is TLS from the first byte, everything else must upgrade.
	if e.config.SMTPPort != 465 {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return "", fmt.Errorf("smtp server %s does not offer STARTTLS", address)
		}
		if err = client.StartTLS(&tls.Config{ServerName: e.config.SMTPServer}); err != nil {
			logger.Log.Error("failed to start TLS", "error", err)
			return "", err
		}
	}

	if err := e.sendViaClient(client, to, msg); err != nil {
		return "", err
	}
	return msgID, nil
}

func (e *SMTP) timeout() time.Duration {
	if e.config.Timeout == 0 {
		return 10 * time.Second
	}
	return e.config.Timeout
}

func (e *SMTP) dial(ctx context.Context, address string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: e.timeout()}
	if e.config.SMTPPort == 465 {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: e.config.SMTPServer}}
		return tlsDialer.DialContext(ctx, "tcp", address)
	}
	return dialer.DialContext(ctx, "tcp", address)
}

// sendViaClient performs auth, sets sender/recipient, and sends the message body.
func (e *SMTP) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(e.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}

	if err := client.Mail(e.config.Username); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}

	if err := client.Rcpt(recipientEmail); err != nil {
		logger.Log.Error("failed to set recipient", "recipient", recipientEmail, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}

	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}

	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func senderDomain(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}

func generateMessageID(domain string) string {
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

func (e *SMTP) buildMessage(msgID, recipient, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", e.config.SenderName)
	date := e.now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		msgID, date, recipient, encodedSenderName, e.config.Username, encodedSubject, body,
	)
}
