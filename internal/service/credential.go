package service

import (
	"context"
	"fmt"
	"time"

	"github.com/waterdropvpn/starcore/internal/api/dto"
	"github.com/waterdropvpn/starcore/internal/domain/credential"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
	"github.com/waterdropvpn/starcore/internal/vless"
)

// CredentialService issues tunnel credentials and renders their connection
// links. A credential is only ever handed out while the owning user still
// has access; its expiry always mirrors the user's own.
type CredentialService interface {
	Issue(ctx context.Context, userID string) (*dto.CredentialResponse, error)
	Get(ctx context.Context, userID string) (*dto.CredentialResponse, error)
	Revoke(ctx context.Context, userID string) error
}

type credentialService struct {
	ServiceParams
}

// NewCredentialService creates a new credential service
func NewCredentialService(params ServiceParams) CredentialService {
	return &credentialService{ServiceParams: params}
}

// Issue cuts a fresh credential for the user, retiring any previous one in
// the same transaction so at most one credential is active at a time. The
// new credential inherits the user's current expiry.
func (s *credentialService) Issue(ctx context.Context, userID string) (*dto.CredentialResponse, error) {
	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.ExpiresAt.IsZero() {
		return nil, ierr.NewError("user has no access window").
			WithHint("Cannot issue a credential without an access expiry").
			WithReportableDetails(map[string]any{
				"user_id": userID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	cred := &credential.Credential{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CREDENTIAL),
		UserID:    u.ID,
		UUID:      vless.GenerateIdentity(),
		Path:      vless.GeneratePath(s.Config.VPN.BasePath, u.ExternalID, vless.NewPathSalt()),
		Email:     fmt.Sprintf("user%d@%s", u.ExternalID, s.Config.VPN.Domain),
		IssuedAt:  now,
		ExpiresAt: u.ExpiresAt,
		Active:    true,
		BaseModel: types.GetDefaultBaseModel(),
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.CredentialRepo.DeactivateByUserID(ctx, u.ID); err != nil {
			return err
		}
		return s.CredentialRepo.Create(ctx, cred)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("credential issued",
		"credential_id", cred.ID,
		"user_id", u.ID,
		"expires_at", cred.ExpiresAt,
	)
	return s.toResponse(cred), nil
}

// Get returns the user's active credential with its connection links.
// A missing credential is issued on the fly and a stale one is reissued,
// but a user whose access has lapsed gets nothing.
func (s *credentialService) Get(ctx context.Context, userID string) (*dto.CredentialResponse, error) {
	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !u.HasAccess(now) {
		return nil, ierr.NewError("access expired").
			WithHint("Subscription or trial has expired, purchase a plan to reconnect").
			WithReportableDetails(map[string]any{
				"user_id":    userID,
				"expires_at": u.ExpiresAt,
			}).
			Mark(ierr.ErrCredentialExpired)
	}

	cred, err := s.CredentialRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return s.Issue(ctx, userID)
		}
		return nil, err
	}

	// The stored expiry can trail the user's after a bonus or purchase
	// extended access without a reissue. Cut a fresh credential instead
	// of serving one that dies early.
	if !cred.IsValid(now) || cred.ExpiresAt.Before(u.ExpiresAt) {
		return s.Issue(ctx, userID)
	}
	return s.toResponse(cred), nil
}

// Revoke deactivates all of the user's credentials.
func (s *credentialService) Revoke(ctx context.Context, userID string) error {
	if _, err := s.UserRepo.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.CredentialRepo.DeactivateByUserID(ctx, userID); err != nil {
		return err
	}
	s.Logger.Infow("credentials revoked", "user_id", userID)
	return nil
}

func (s *credentialService) toResponse(cred *credential.Credential) *dto.CredentialResponse {
	built := vless.BuildAll(vless.Link{
		UUID:  cred.UUID,
		Host:  s.Config.VPN.Host,
		Path:  cred.Path,
		Label: cred.Email,
	})
	links := make(map[string]string, len(built))
	for profile, uri := range built {
		links[string(profile)] = uri
	}

	return &dto.CredentialResponse{
		ID:        cred.ID,
		UserID:    cred.UserID,
		UUID:      cred.UUID,
		Path:      cred.Path,
		Email:     cred.Email,
		IssuedAt:  cred.IssuedAt,
		ExpiresAt: cred.ExpiresAt,
		Active:    cred.Active,
		Links:     links,
	}
}
