package mail

import (
	"context"

	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/google/uuid"
)

// Log writes messages to the logger instead of sending them. Development only.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (Log) Send(ctx context.Context, to, subject, body string) (string, error) {
	id := uuid.NewString()
	logger.Log.Info("mail not sent, log transport", "message_id", id, "to", to, "subject", subject, "body", body)
	return id, nil
}
