package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid delivers mail through the v3 mail send API.
type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGrid(cfg *config.SendGrid) *SendGrid {
	request := sendgrid.GetRequest(cfg.APIKey, "/v3/mail/send", strings.TrimRight(cfg.BaseURL, "/"))
	request.Method = "POST"
	return &SendGrid{
		client: &sendgrid.Client{Request: request},
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

func (s *SendGrid) Send(ctx context.Context, to, subject, body string) (string, error) {
	message := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail("", to), body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.Log.Error("sendgrid request failed", "error", err)
		return "", fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Log.Error("sendgrid rejected message", "status", resp.StatusCode, "body", resp.Body)
		return "", fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	var messageID string
	for name, values := range resp.Headers {
		if strings.EqualFold(name, "X-Message-Id") && len(values) > 0 {
			messageID = values[0]
		}
	}
	return messageID, nil
}
