package postgres

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/user"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
)

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query := `
	INSERT INTO users (
		id, external_id, username, first_name, last_name, referral_code,
		invited_by, balance, total_earned, expires_at, registered_at,
		last_activity_at, status, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		u.ID,
		u.ExternalID,
		u.Username,
		u.FirstName,
		u.LastName,
		u.ReferralCode,
		u.InvitedBy,
		u.Balance,
		u.TotalEarned,
		u.ExpiresAt,
		u.RegisteredAt,
		u.LastActivityAt,
		u.Status,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A user with this external ID already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return wrapDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT * FROM users WHERE id = $1 AND status != 'deleted'`

	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("User with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get user")
	}
	return &u, nil
}

// GetForUpdate takes a row lock on the user. Only meaningful inside a
// transaction; two transactions locking the same user serialize here.
func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT * FROM users WHERE id = $1 AND status != 'deleted' FOR UPDATE`

	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("User with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "lock user")
	}
	return &u, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID int64) (*user.User, error) {
	query := `SELECT * FROM users WHERE external_id = $1 AND status != 'deleted'`

	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, externalID)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("User with external ID %d was not found", externalID).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get user by external id")
	}
	return &u, nil
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*user.User, error) {
	query := `SELECT * FROM users WHERE referral_code = $1 AND status != 'deleted'`

	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, code)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHint("No user owns this referral code").
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get user by referral code")
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	query := `
	UPDATE users SET
		username = $2,
		first_name = $3,
		last_name = $4,
		invited_by = $5,
		expires_at = $6,
		last_activity_at = $7,
		status = $8,
		updated_at = $9
	WHERE id = $1
	`

	res, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		u.ID,
		u.Username,
		u.FirstName,
		u.LastName,
		u.InvitedBy,
		u.ExpiresAt,
		u.LastActivityAt,
		u.Status,
		u.UpdatedAt,
	)
	if err != nil {
		return wrapDBError(err, "update user")
	}
	return requireRowAffected(res, "user", u.ID)
}

// UpdateBalance writes the balance columns only, leaving profile fields
// untouched so ledger commits cannot clobber concurrent profile updates.
func (r *userRepository) UpdateBalance(ctx context.Context, id string, balance, totalEarned int64) error {
	query := `UPDATE users SET balance = $2, total_earned = $3, updated_at = now() WHERE id = $1`

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, id, balance, totalEarned)
	if err != nil {
		return wrapDBError(err, "update user balance")
	}
	return requireRowAffected(res, "user", id)
}

func (r *userRepository) CountReferrals(ctx context.Context, code string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE invited_by = $1 AND status != 'deleted'`

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, code); err != nil {
		return 0, wrapDBError(err, "count referrals")
	}
	return count, nil
}
