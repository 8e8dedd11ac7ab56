package service

import (
	"encoding/json"

	"github.com/aljannat-dev/aljannat/shared/errors"
)

// Documents served verbatim from the content directory.
const (
	DocumentServices = "services"
	DocumentGallery  = "gallery"
	DocumentPricing  = "pricing"
)

type ContentService interface {
	Document(name string) (json.RawMessage, error)
}

type Content struct {
	source ContentSource
}

type ContentSource interface {
	Document(name string) (json.RawMessage, error)
}

func NewContent(source ContentSource) ContentService {
	return &Content{source: source}
}

func (c *Content) Document(name string) (json.RawMessage, error) {
	switch name {
	case DocumentServices, DocumentGallery, DocumentPricing:
	default:
		return nil, errors.NotFound("Document not found")
	}

	doc, err := c.source.Document(name)
	if err != nil {
		return nil, dependencyFailure("read document "+name, err)
	}
	return doc, nil
}
