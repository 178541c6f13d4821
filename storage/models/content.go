package models

import (
	"time"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypeText     ContentType = "TEXT"
	ContentTypeImage    ContentType = "IMAGE"
	ContentTypeLongform ContentType = "LONGFORM"
	ContentTypeLink     ContentType = "LINK"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeText, ContentTypeImage, ContentTypeLongform, ContentTypeLink:
		return true
	}
	return false
}

type Content struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	Title       string
	Description string
	Type        ContentType
	CreatedAt   time.Time
}
