package postgres

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/plan"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
)

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
	INSERT INTO subscription_plans (
		id, name, duration_days, price, description, status, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		p.ID,
		p.Name,
		p.DurationDays,
		p.Price,
		p.Description,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A plan with this ID already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return wrapDBError(err, "create plan")
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	query := `SELECT * FROM subscription_plans WHERE id = $1 AND status = 'active'`

	var p plan.Plan
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Plan with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get plan")
	}
	return &p, nil
}

// List returns the active catalog, cheapest plan first.
func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	query := `SELECT * FROM subscription_plans WHERE status = 'active' ORDER BY price ASC`

	plans := make([]*plan.Plan, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &plans, query); err != nil {
		return nil, wrapDBError(err, "list plans")
	}
	return plans, nil
}
