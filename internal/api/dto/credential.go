package dto

import "time"

// CredentialResponse carries a tunnel credential together with its
// rendered connection links, keyed by masking profile name.
type CredentialResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	UUID      string            `json:"uuid"`
	Path      string            `json:"path"`
	Email     string            `json:"email"`
	IssuedAt  time.Time         `json:"issued_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Active    bool              `json:"active"`
	Links     map[string]string `json:"links"`
}
