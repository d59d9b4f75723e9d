package dto

import (
	"time"

	"github.com/waterdropvpn/starcore/internal/domain/user"
	"github.com/waterdropvpn/starcore/internal/validator"
)

// RegisterUserRequest represents a request to register a user, or to
// refresh an already registered one.
type RegisterUserRequest struct {
	ExternalID   int64  `json:"external_id" validate:"required,gt=0"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	ReferralCode string `json:"referral_code,omitempty"`
}

func (r *RegisterUserRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// UserResponse represents a user response
type UserResponse struct {
	ID             string    `json:"id"`
	ExternalID     int64     `json:"external_id"`
	Username       string    `json:"username,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	ReferralCode   string    `json:"referral_code"`
	InvitedBy      *string   `json:"invited_by,omitempty"`
	Balance        int64     `json:"balance"`
	TotalEarned    int64     `json:"total_earned"`
	ExpiresAt      time.Time `json:"expires_at"`
	RegisteredAt   time.Time `json:"registered_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

func NewUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		ExternalID:     u.ExternalID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ReferralCode:   u.ReferralCode,
		InvitedBy:      u.InvitedBy,
		Balance:        u.Balance,
		TotalEarned:    u.TotalEarned,
		ExpiresAt:      u.ExpiresAt,
		RegisteredAt:   u.RegisteredAt,
		LastActivityAt: u.LastActivityAt,
	}
}

// RegisterUserResponse reports the registration outcome. Created is false
// when the external ID was already known and only activity was refreshed.
type RegisterUserResponse struct {
	User    *UserResponse `json:"user"`
	Created bool          `json:"created"`
}

// ProfileResponse aggregates the account screen data.
type ProfileResponse struct {
	User          *UserResponse         `json:"user"`
	ReferralCount int                   `json:"referral_count"`
	HasAccess     bool                  `json:"has_access"`
	Subscription  *SubscriptionResponse `json:"subscription,omitempty"`
}
