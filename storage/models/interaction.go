package models

import (
	"time"

	"github.com/google/uuid"
)

type InteractionType string

const (
	View    InteractionType = "VIEW"
	Like    InteractionType = "LIKE"
	Comment InteractionType = "COMMENT"
	Share   InteractionType = "SHARE"
	Click   InteractionType = "CLICK"
)

// InteractionTypes lists every type in counter column order.
var InteractionTypes = []InteractionType{View, Like, Comment, Share, Click}

func (t InteractionType) Valid() bool {
	switch t {
	case View, Like, Comment, Share, Click:
		return true
	}
	return false
}

// Repeatable reports whether more than one live row per (user, content) is
// allowed. Only comments are repeatable; everything else is unique.
func (t InteractionType) Repeatable() bool {
	return t == Comment
}

// Removable reports whether the type supports removal. Likes toggle off,
// comments can be deleted; views, clicks and shares are permanent facts.
func (t InteractionType) Removable() bool {
	return t == Like || t == Comment
}

type Interaction struct {
	ID        uuid.UUID
	Type      InteractionType
	UserID    uuid.UUID
	ContentID uuid.UUID
	Payload   string
	CreatedAt time.Time
}
