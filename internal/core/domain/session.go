package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated login. It expires after an idle period.
type Session struct {
	ID        string    `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
