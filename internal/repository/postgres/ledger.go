package postgres

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/ledger"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
)

type ledgerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewLedgerRepository(db *postgres.DB, logger *logger.Logger) ledger.Repository {
	return &ledgerRepository{db: db, logger: logger}
}

func (r *ledgerRepository) Create(ctx context.Context, t *ledger.Transaction) error {
	query := `
	INSERT INTO ledger_transactions (
		id, user_id, amount, kind, description, balance_after, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		t.ID,
		t.UserID,
		t.Amount,
		t.Kind,
		t.Description,
		t.BalanceAfter,
		t.CreatedAt,
	)
	if err != nil {
		return wrapDBError(err, "create ledger transaction")
	}
	return nil
}

func (r *ledgerRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*ledger.Transaction, error) {
	query := `SELECT * FROM ledger_transactions WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	txns := make([]*ledger.Transaction, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, wrapDBError(err, "list ledger transactions")
	}
	return txns, nil
}

func (r *ledgerRepository) SumByUserID(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_transactions WHERE user_id = $1`

	var sum int64
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &sum, query, userID); err != nil {
		return 0, wrapDBError(err, "sum ledger transactions")
	}
	return sum, nil
}
