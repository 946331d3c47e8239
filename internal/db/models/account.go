package models

import "time"

// ServiceAccount is a caller allowed to exchange client credentials for a
// bearer token.
type ServiceAccount struct {
	ID        int64     `json:"id"`
	ClientID  string    `json:"client_id"`
	Secret    string    `json:"-"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"created_at"`
}
