package service

import (
	"context"
	"fmt"
	"time"

	"github.com/waterdropvpn/starcore/internal/api/dto"
	"github.com/waterdropvpn/starcore/internal/domain/user"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// UserService manages account registration and profiles. Registration is
// upsert-like: the same external identity may register any number of
// times, but the trial grant and the referral bonus fire only on the
// first contact.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	GetUserByExternalID(ctx context.Context, externalID int64) (*dto.UserResponse, error)
	GetProfile(ctx context.Context, id string) (*dto.ProfileResponse, error)
}

type userService struct {
	ServiceParams
}

// NewUserService creates a new user service
func NewUserService(params ServiceParams) UserService {
	return &userService{ServiceParams: params}
}

// Register creates the account on first contact and refreshes activity on
// every later one. New accounts get a short trial window, and when the
// request carries another user's referral code the inviter is paid a
// one-time bonus of extra days and stars.
func (s *userService) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	existing, err := s.UserRepo.GetByExternalID(ctx, req.ExternalID)
	if err == nil {
		existing.Username = req.Username
		existing.FirstName = req.FirstName
		existing.LastName = req.LastName
		existing.LastActivityAt = now
		existing.UpdatedAt = now
		if err := s.UserRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &dto.RegisterUserResponse{
			User:    dto.NewUserResponse(existing),
			Created: false,
		}, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	trialEnd := now.Add(time.Duration(s.Config.Trial.Hours) * time.Hour)
	u := &user.User{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		ExternalID:     req.ExternalID,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ReferralCode:   types.GenerateReferralCode(),
		ExpiresAt:      trialEnd,
		RegisteredAt:   now,
		LastActivityAt: now,
		BaseModel:      types.GetDefaultBaseModel(),
	}

	var inviter *user.User
	if req.ReferralCode != "" {
		inviter, err = s.UserRepo.GetByReferralCode(ctx, req.ReferralCode)
		if err != nil {
			if !ierr.IsNotFound(err) {
				return nil, err
			}
			// An unknown code does not block registration.
			s.Logger.Warnw("referral code not found, registering without inviter",
				"referral_code", req.ReferralCode,
				"external_id", req.ExternalID,
			)
			inviter = nil
		} else if inviter.ExternalID == req.ExternalID {
			// Self-referral earns nothing.
			inviter = nil
		}
	}
	if inviter != nil {
		u.InvitedBy = &inviter.ReferralCode
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.UserRepo.Create(ctx, u); err != nil {
			return err
		}
		if inviter == nil {
			return nil
		}
		return s.grantReferralBonus(ctx, inviter.ID, u)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("user registered",
		"user_id", u.ID,
		"external_id", u.ExternalID,
		"invited_by", u.InvitedBy,
	)
	return &dto.RegisterUserResponse{
		User:    dto.NewUserResponse(u),
		Created: true,
	}, nil
}

// grantReferralBonus pays the inviter for a successful invite: a fixed
// number of extra access days plus a stars credit. Days extend a live
// expiry or restart from now if access already lapsed.
func (s *userService) grantReferralBonus(ctx context.Context, inviterID string, invitee *user.User) error {
	inviter, err := s.UserRepo.GetForUpdate(ctx, inviterID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	base := now
	if inviter.ExpiresAt.After(now) {
		base = inviter.ExpiresAt
	}
	inviter.ExpiresAt = base.AddDate(0, 0, s.Config.Referral.BonusDays)
	inviter.UpdatedAt = now
	if err := s.UserRepo.Update(ctx, inviter); err != nil {
		return err
	}

	ledgerService := NewLedgerService(s.ServiceParams)
	_, err = ledgerService.Credit(ctx, inviter.ID, int64(s.Config.Referral.BonusStars),
		types.TransactionKindReferral,
		fmt.Sprintf("Referral bonus for inviting user %d", invitee.ExternalID))
	if err != nil {
		return err
	}

	s.Logger.Infow("referral bonus granted",
		"inviter_id", inviter.ID,
		"invitee_external_id", invitee.ExternalID,
		"bonus_days", s.Config.Referral.BonusDays,
		"bonus_stars", s.Config.Referral.BonusStars,
	)
	return nil
}

// GetUser gets a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(u), nil
}

// GetUserByExternalID resolves a user by the provider-side numeric ID.
func (s *userService) GetUserByExternalID(ctx context.Context, externalID int64) (*dto.UserResponse, error) {
	u, err := s.UserRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(u), nil
}

// GetProfile aggregates the user with referral stats and the current
// subscription, the way the account screen renders it.
func (s *userService) GetProfile(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	u, err := s.UserRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	referrals, err := s.UserRepo.CountReferrals(ctx, u.ReferralCode)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{
		User:          dto.NewUserResponse(u),
		ReferralCount: referrals,
		HasAccess:     u.HasAccess(time.Now().UTC()),
	}

	sub, err := s.SubRepo.GetActiveByUserID(ctx, id)
	if err == nil {
		resp.Subscription = dto.NewSubscriptionResponse(sub)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}
	return resp, nil
}
