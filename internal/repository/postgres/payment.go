package postgres

import (
	"context"

	"github.com/waterdropvpn/starcore/internal/domain/payment"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
	INSERT INTO payments (
		id, user_id, amount, currency, payment_status, invoice_payload,
		provider_charge_id, external_charge_id, completed_at,
		status, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		p.ID,
		p.UserID,
		p.Amount,
		p.Currency,
		p.PaymentStatus,
		p.InvoicePayload,
		p.ProviderChargeID,
		p.ExternalChargeID,
		p.CompletedAt,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		// invoice_payload carries a unique index.
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A payment with this invoice payload already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return wrapDBError(err, "create payment")
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	query := `SELECT * FROM payments WHERE id = $1`

	var p payment.Payment
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Payment with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get payment")
	}
	return &p, nil
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, id string) (*payment.Payment, error) {
	query := `SELECT * FROM payments WHERE id = $1 FOR UPDATE`

	var p payment.Payment
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Payment with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get payment for update")
	}
	return &p, nil
}

func (r *paymentRepository) GetByPayload(ctx context.Context, payload string) (*payment.Payment, error) {
	query := `SELECT * FROM payments WHERE invoice_payload = $1`

	var p payment.Payment
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, payload)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHint("No payment matches this invoice payload").
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "get payment by payload")
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `
	UPDATE payments SET
		payment_status = $2,
		provider_charge_id = $3,
		external_charge_id = $4,
		completed_at = $5,
		updated_at = $6
	WHERE id = $1
	`

	res, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		p.ID,
		p.PaymentStatus,
		p.ProviderChargeID,
		p.ExternalChargeID,
		p.CompletedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return wrapDBError(err, "update payment")
	}
	return requireRowAffected(res, "payment", p.ID)
}

func (r *paymentRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*payment.Payment, error) {
	query := `SELECT * FROM payments WHERE user_id = $1 ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	payments := make([]*payment.Payment, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, wrapDBError(err, "list payments")
	}
	return payments, nil
}
