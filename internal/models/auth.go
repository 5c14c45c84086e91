package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is persisted by hash only. The raw value is handed to the
// client once and never stored.
type RefreshToken struct {
	ID        uint64    `db:"id"         json:"id"`
	UserID    uuid.UUID `db:"user_id"    json:"userId"`
	TokenHash string    `db:"token_hash" json:"tokenHash"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
