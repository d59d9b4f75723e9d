package service

import (
	"context"
	"time"

	"github.com/waterdropvpn/starcore/internal/domain/ledger"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

// LedgerService owns the stars balance of every user. It is the only code
// path that mutates the balance column, and every mutation appends exactly
// one ledger transaction in the same database transaction, so the balance
// always equals the running sum of the user's entries.
type LedgerService interface {
	Credit(ctx context.Context, userID string, amount int64, kind types.TransactionKind, description string) (int64, error)
	Debit(ctx context.Context, userID string, amount int64, kind types.TransactionKind, description string) (int64, error)
	GetBalance(ctx context.Context, userID string) (*BalanceResult, error)
	ListTransactions(ctx context.Context, userID string, limit int) ([]*ledger.Transaction, error)
}

// BalanceResult reports the current balance alongside the lifetime earned
// total (credits only, debits excluded).
type BalanceResult struct {
	Balance     int64 `json:"balance"`
	TotalEarned int64 `json:"total_earned"`
}

type ledgerService struct {
	ServiceParams
}

// NewLedgerService creates a new ledger service
func NewLedgerService(params ServiceParams) LedgerService {
	return &ledgerService{ServiceParams: params}
}

// Credit adds stars to the user's balance and bumps the lifetime earned
// total. Returns the new balance.
func (s *ledgerService) Credit(ctx context.Context, userID string, amount int64, kind types.TransactionKind, description string) (int64, error) {
	if amount <= 0 {
		return 0, ierr.NewError("credit amount must be positive").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	return s.apply(ctx, userID, amount, kind, description)
}

// Debit removes stars from the user's balance. The balance check runs on a
// row locked inside the same transaction that mutates it, so two concurrent
// debits cannot both pass against a pre-mutation balance.
func (s *ledgerService) Debit(ctx context.Context, userID string, amount int64, kind types.TransactionKind, description string) (int64, error) {
	if amount <= 0 {
		return 0, ierr.NewError("debit amount must be positive").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	return s.apply(ctx, userID, -amount, kind, description)
}

func (s *ledgerService) apply(ctx context.Context, userID string, signedAmount int64, kind types.TransactionKind, description string) (int64, error) {
	if signedAmount == 0 {
		return 0, ierr.NewError("ledger amount must be non-zero").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if !kind.Validate() {
		return 0, ierr.NewError("unknown transaction kind").
			WithHint("Transaction kind must be deposit, purchase or referral").
			WithReportableDetails(map[string]any{
				"kind": kind,
			}).
			Mark(ierr.ErrValidation)
	}

	var newBalance int64
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.UserRepo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		newBalance = u.Balance + signedAmount
		if newBalance < 0 {
			shortfall := -newBalance
			return ierr.NewError("insufficient balance").
				WithHintf("Not enough stars: %d more needed", shortfall).
				WithReportableDetails(map[string]any{
					"user_id":   userID,
					"balance":   u.Balance,
					"amount":    -signedAmount,
					"shortfall": shortfall,
				}).
				Mark(ierr.ErrInsufficientBalance)
		}

		totalEarned := u.TotalEarned
		if signedAmount > 0 {
			totalEarned += signedAmount
		}

		tx := &ledger.Transaction{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEDGER_TRANSACTION),
			UserID:       userID,
			Amount:       signedAmount,
			Kind:         kind,
			Description:  description,
			BalanceAfter: newBalance,
			CreatedAt:    time.Now().UTC(),
		}
		if err := tx.Validate(); err != nil {
			return err
		}

		if err := s.LedgerRepo.Create(ctx, tx); err != nil {
			return err
		}

		return s.UserRepo.UpdateBalance(ctx, userID, newBalance, totalEarned)
	})
	if err != nil {
		return 0, err
	}

	s.Logger.Debugw("ledger entry applied",
		"user_id", userID,
		"amount", signedAmount,
		"kind", kind,
		"balance", newBalance,
	)
	return newBalance, nil
}

// GetBalance returns the user's current balance and lifetime earned total.
func (s *ledgerService) GetBalance(ctx context.Context, userID string) (*BalanceResult, error) {
	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{
		Balance:     u.Balance,
		TotalEarned: u.TotalEarned,
	}, nil
}

// ListTransactions returns the most recent ledger entries for the user.
func (s *ledgerService) ListTransactions(ctx context.Context, userID string, limit int) ([]*ledger.Transaction, error) {
	if _, err := s.UserRepo.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.LedgerRepo.ListByUserID(ctx, userID, limit)
}
