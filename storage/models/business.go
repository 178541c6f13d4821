package models

import (
	"time"

	"github.com/google/uuid"
)

type Business struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	CreatedAt time.Time
}
