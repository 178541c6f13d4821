package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership is owned by the subscription-management component; this service
// only reads it for analytics denominators.
type Membership struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	CreatedAt  time.Time
}
