package postgres

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/credential"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
)

type credentialRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCredentialRepository(db *postgres.DB, logger *logger.Logger) credential.Repository {
	return &credentialRepository{db: db, logger: logger}
}

func (r *credentialRepository) Create(ctx context.Context, c *credential.Credential) error {
	query := `
	INSERT INTO credentials (
		id, user_id, uuid, path, email, issued_at, expires_at, active,
		status, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		c.ID,
		c.UserID,
		c.UUID,
		c.Path,
		c.Email,
		c.IssuedAt,
		c.ExpiresAt,
		c.Active,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A credential with this identity already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return wrapDBError(err, "create credential")
	}
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, id string) (*credential.Credential, error) {
	query := `SELECT * FROM credentials WHERE id = $1`

	var c credential.Credential
	err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Credential with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get credential")
	}
	return &c, nil
}

func (r *credentialRepository) GetActiveByUserID(ctx context.Context, userID string) (*credential.Credential, error) {
	query := `
	SELECT * FROM credentials
	WHERE user_id = $1 AND active = true
	ORDER BY issued_at DESC
	LIMIT 1
	`

	var c credential.Credential
	err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHint("User has no active credential").
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get active credential")
	}
	return &c, nil
}

func (r *credentialRepository) DeactivateByUserID(ctx context.Context, userID string) error {
	query := `UPDATE credentials SET active = false, updated_at = now() WHERE user_id = $1 AND active = true`

	if _, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, userID); err != nil {
		return wrapDBError(err, "deactivate credentials")
	}
	return nil
}

func (r *credentialRepository) ListByUserID(ctx context.Context, userID string) ([]*credential.Credential, error) {
	query := `SELECT * FROM credentials WHERE user_id = $1 ORDER BY issued_at DESC`

	creds := make([]*credential.Credential, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &creds, query, userID); err != nil {
		return nil, wrapDBError(err, "list credentials")
	}
	return creds, nil
}
