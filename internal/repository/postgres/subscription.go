package postgres

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/subscription"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	query := `
	INSERT INTO user_subscriptions (
		id, user_id, plan_id, start_date, end_date, active, stars_paid,
		status, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		s.ID,
		s.UserID,
		s.PlanID,
		s.StartDate,
		s.EndDate,
		s.Active,
		s.StarsPaid,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return wrapDBError(err, "create subscription")
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT * FROM user_subscriptions WHERE id = $1`

	var s subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Subscription with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get subscription")
	}
	return &s, nil
}

func (r *subscriptionRepository) GetActiveByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	query := `
	SELECT * FROM user_subscriptions
	WHERE user_id = $1 AND active = true
	ORDER BY start_date DESC
	LIMIT 1
	`

	var s subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHint("User has no active subscription").
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get active subscription")
	}
	return &s, nil
}

// DeactivateByUserID is a no-op when the user has no active rows; a first
// purchase has nothing to supersede.
func (r *subscriptionRepository) DeactivateByUserID(ctx context.Context, userID string) error {
	query := `UPDATE user_subscriptions SET active = false, updated_at = now() WHERE user_id = $1 AND active = true`

	if _, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, userID); err != nil {
		return wrapDBError(err, "deactivate subscriptions")
	}
	return nil
}

func (r *subscriptionRepository) ListByUserID(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	query := `SELECT * FROM user_subscriptions WHERE user_id = $1 ORDER BY start_date DESC`

	subs := make([]*subscription.Subscription, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, wrapDBError(err, "list subscriptions")
	}
	return subs, nil
}
