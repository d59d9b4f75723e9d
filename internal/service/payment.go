package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/waterdropvpn/starcore/internal/api/dto"
	"github.com/waterdropvpn/starcore/internal/domain/payment"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// PaymentService reconciles provider-funded top-ups with the stars ledger.
// Completion is idempotent: the provider may redeliver the completion
// notice for the same payment, and the balance must be credited exactly
// once across all deliveries.
type PaymentService interface {
	CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	CompletePayment(ctx context.Context, id string, req *dto.CompletePaymentRequest) (*dto.CompletePaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	GetPaymentByPayload(ctx context.Context, payload string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, userID string, limit int) ([]*dto.PaymentResponse, error)
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

// CreatePayment inserts a pending payment keyed by the caller-supplied
// invoice payload. A duplicate payload is rejected instead of creating a
// second pending row for the same invoice.
func (s *paymentService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepo.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Payload == "" {
		req.Payload = types.GeneratePaymentPayload(req.Amount, u.ExternalID)
	}

	if existing, err := s.PaymentRepo.GetByPayload(ctx, req.Payload); err == nil && existing != nil {
		return nil, ierr.NewError("invoice payload already used").
			WithHint("A payment with this invoice payload already exists").
			WithReportableDetails(map[string]any{
				"payload":    req.Payload,
				"payment_id": existing.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	p := &payment.Payment{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		UserID:         req.UserID,
		Amount:         req.Amount,
		Currency:       s.Config.Billing.Currency,
		PaymentStatus:  types.PaymentStatusPending,
		InvoicePayload: req.Payload,
		BaseModel:      types.GetDefaultBaseModel(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("payment created",
		"payment_id", p.ID,
		"user_id", p.UserID,
		"amount", p.Amount,
	)
	return dto.NewPaymentResponse(p), nil
}

// CompletePayment moves a payment from pending to completed and credits
// the user's balance, all in one transaction. Re-delivery of the same
// completion is a no-op that still reports success: the payment stays
// completed and the balance is not credited again.
func (s *paymentService) CompletePayment(ctx context.Context, id string, req *dto.CompletePaymentRequest) (*dto.CompletePaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Currency is verified before any mutation; a mismatch leaves the
	// payment pending for manual review.
	if req.Currency != "" && !types.IsMatchingCurrency(req.Currency, s.Config.Billing.Currency) {
		return nil, ierr.NewError("unsupported payment currency").
			WithHintf("Only %s payments are accepted", s.Config.Billing.Currency).
			WithReportableDetails(map[string]any{
				"payment_id": p.ID,
				"currency":   req.Currency,
			}).
			Mark(ierr.ErrInvalidCurrency)
	}
	if req.Amount != 0 && req.Amount != p.Amount {
		return nil, ierr.NewError("payment amount does not match invoice").
			WithHint("Confirmed amount does not match the invoice").
			WithReportableDetails(map[string]any{
				"payment_id": p.ID,
				"expected":   p.Amount,
				"confirmed":  req.Amount,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	// Idempotent retry contract: a completed payment reports success
	// without touching the ledger.
	if p.IsCompleted() {
		s.Logger.Infow("payment already completed, skipping credit",
			"payment_id", p.ID,
		)
		return &dto.CompletePaymentResponse{
			Payment:  dto.NewPaymentResponse(p),
			Credited: false,
		}, nil
	}

	ledgerService := NewLedgerService(s.ServiceParams)

	var credited bool
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		// The unlocked read above can go stale: a concurrent delivery of
		// the same notice may complete the payment first. Re-read under
		// the row lock and only credit a payment that is still pending.
		locked, err := s.PaymentRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked.IsCompleted() {
			p = locked
			return nil
		}

		now := time.Now().UTC()
		locked.PaymentStatus = types.PaymentStatusCompleted
		locked.ProviderChargeID = lo.ToPtr(req.ProviderChargeID)
		locked.ExternalChargeID = lo.ToPtr(req.ExternalChargeID)
		locked.CompletedAt = &now
		locked.UpdatedAt = now

		if err := s.PaymentRepo.Update(ctx, locked); err != nil {
			return err
		}

		if _, err := ledgerService.Credit(ctx, locked.UserID, locked.Amount,
			types.TransactionKindDeposit,
			fmt.Sprintf("Balance top-up, payment %s", locked.ID)); err != nil {
			return err
		}

		p = locked
		credited = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !credited {
		s.Logger.Infow("payment already completed, skipping credit",
			"payment_id", p.ID,
		)
		return &dto.CompletePaymentResponse{
			Payment:  dto.NewPaymentResponse(p),
			Credited: false,
		}, nil
	}

	s.Logger.Infow("payment completed",
		"payment_id", p.ID,
		"user_id", p.UserID,
		"amount", p.Amount,
	)
	return &dto.CompletePaymentResponse{
		Payment:  dto.NewPaymentResponse(p),
		Credited: true,
	}, nil
}

// GetPayment gets a payment by ID
func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

// GetPaymentByPayload resolves a payment by its invoice payload. Used by
// the provider webhook, which correlates completions by payload.
func (s *paymentService) GetPaymentByPayload(ctx context.Context, payload string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.GetByPayload(ctx, payload)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

// ListPayments returns the most recent payments of the user.
func (s *paymentService) ListPayments(ctx context.Context, userID string, limit int) ([]*dto.PaymentResponse, error) {
	if _, err := s.UserRepo.Get(ctx, userID); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = dto.NewPaymentResponse(p)
	}
	return items, nil
}
