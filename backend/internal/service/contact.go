package service

import (
	"context"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/aljannat-dev/aljannat/shared/utils"
)

type ContactService interface {
	Submit(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error)
}

type Contact struct {
	storage   ContactStorage
	sanitizer Sanitizer
}

type ContactStorage interface {
	SaveContactMessage(ctx context.Context, m domain.ContactMessage) (domain.ContactMessage, error)
}

// Sanitizer reduces user input to plain text.
type Sanitizer interface {
	StripTags(text string) string
}

func NewContact(storage ContactStorage, sanitizer Sanitizer) ContactService {
	return &Contact{storage: storage, sanitizer: sanitizer}
}

func (c *Contact) Submit(ctx context.Context, msg domain.ContactMessage) (domain.ContactMessage, error) {
	msg.Name = strings.TrimSpace(c.sanitizer.StripTags(msg.Name))
	msg.Email = utils.NormalizeEmail(msg.Email)
	msg.Message = strings.TrimSpace(c.sanitizer.StripTags(msg.Message))
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return domain.ContactMessage{}, errFieldsRequired
	}
	if err := validateEmail(msg.Email); err != nil {
		return domain.ContactMessage{}, err
	}

	saved, err := c.storage.SaveContactMessage(ctx, msg)
	if err != nil {
		return domain.ContactMessage{}, err
	}
	logger.Log.Info("contact message received", "id", saved.Id, "email", saved.Email)
	return saved, nil
}
