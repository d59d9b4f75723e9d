package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/waterdropvpn/starcore/internal/api/dto"
	"github.com/waterdropvpn/starcore/internal/domain/payment"
	"github.com/waterdropvpn/starcore/internal/domain/user"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/testutil"
	"github.com/waterdropvpn/starcore/internal/types"
)

// stalePaymentReads serves a fixed snapshot from unlocked reads while
// locked reads still hit the backing store, modeling a delivery whose
// initial status check raced another transaction.
type stalePaymentReads struct {
	payment.Repository
	snapshot payment.Payment
}

func (r *stalePaymentReads) Get(ctx context.Context, id string) (*payment.Payment, error) {
	if id == r.snapshot.ID {
		p := r.snapshot
		return &p, nil
	}
	return r.Repository.Get(ctx, id)
}

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentService
	params   ServiceParams
	testData struct {
		user *user.User
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *PaymentServiceSuite) setupService() {
	s.params = ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		DB:             s.GetDB(),
		Cache:          s.GetCache(),
		UserRepo:       s.GetStores().UserRepo,
		PlanRepo:       s.GetStores().PlanRepo,
		SubRepo:        s.GetStores().SubRepo,
		PaymentRepo:    s.GetStores().PaymentRepo,
		LedgerRepo:     s.GetStores().LedgerRepo,
		CredentialRepo: s.GetStores().CredentialRepo,
	}
	s.service = NewPaymentService(s.params)
}

func (s *PaymentServiceSuite) setupTestData() {
	s.testData.user = &user.User{
		ID:             "user_test_payment",
		ExternalID:     555666777,
		ReferralCode:   "paycode",
		ExpiresAt:      s.GetNow().Add(24 * time.Hour),
		RegisteredAt:   s.GetNow(),
		LastActivityAt: s.GetNow(),
		BaseModel:      types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().UserRepo.Create(s.GetContext(), s.testData.user))
}

func (s *PaymentServiceSuite) createPayment(amount int64) *dto.PaymentResponse {
	resp, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		UserID: s.testData.user.ID,
		Amount: amount,
	})
	s.NoError(err)
	return resp
}

func (s *PaymentServiceSuite) TestCreatePayment() {
	resp := s.createPayment(100)

	s.Equal(types.PaymentStatusPending, resp.PaymentStatus)
	s.Equal(int64(100), resp.Amount)
	s.Equal(types.CurrencyStars, resp.Currency)
	s.NotEmpty(resp.InvoicePayload)
	s.Contains(resp.InvoicePayload, fmt.Sprintf("stars_100_%d_", s.testData.user.ExternalID))
}

func (s *PaymentServiceSuite) TestCreatePaymentDuplicatePayload() {
	_, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		UserID:  s.testData.user.ID,
		Amount:  100,
		Payload: "stars_100_555666777_abcd1234",
	})
	s.NoError(err)

	_, err = s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		UserID:  s.testData.user.ID,
		Amount:  100,
		Payload: "stars_100_555666777_abcd1234",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PaymentServiceSuite) TestCreatePaymentUnknownUser() {
	_, err := s.service.CreatePayment(s.GetContext(), &dto.CreatePaymentRequest{
		UserID: "user_missing",
		Amount: 100,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestCompletePaymentCreditsBalance() {
	created := s.createPayment(100)

	resp, err := s.service.CompletePayment(s.GetContext(), created.ID, &dto.CompletePaymentRequest{
		ProviderChargeID: "prov_1",
		ExternalChargeID: "ext_1",
		Currency:         types.CurrencyStars,
	})
	s.NoError(err)
	s.True(resp.Credited)
	s.Equal(types.PaymentStatusCompleted, resp.Payment.PaymentStatus)
	s.NotNil(resp.Payment.CompletedAt)

	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(int64(100), u.Balance)

	txns, err := s.GetStores().LedgerRepo.ListByUserID(s.GetContext(), s.testData.user.ID, 0)
	s.NoError(err)
	s.Len(txns, 1)
	s.Equal(types.TransactionKindDeposit, txns[0].Kind)
	s.Equal(int64(100), txns[0].Amount)
}

func (s *PaymentServiceSuite) TestCompletePaymentIsIdempotent() {
	created := s.createPayment(100)

	first, err := s.service.CompletePayment(s.GetContext(), created.ID, &dto.CompletePaymentRequest{
		Currency: types.CurrencyStars,
	})
	s.NoError(err)
	s.True(first.Credited)

	// The provider redelivers the same completion.
	second, err := s.service.CompletePayment(s.GetContext(), created.ID, &dto.CompletePaymentRequest{
		Currency: types.CurrencyStars,
	})
	s.NoError(err)
	s.False(second.Credited)

	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(int64(100), u.Balance)

	txns, err := s.GetStores().LedgerRepo.ListByUserID(s.GetContext(), s.testData.user.ID, 0)
	s.NoError(err)
	s.Len(txns, 1)
}

func (s *PaymentServiceSuite) TestCompletePaymentConcurrentRedelivery() {
	created := s.createPayment(100)

	first, err := s.service.CompletePayment(s.GetContext(), created.ID, &dto.CompletePaymentRequest{
		Currency: types.CurrencyStars,
	})
	s.NoError(err)
	s.True(first.Credited)

	// The redelivered notice read the payment while it was still pending,
	// then lost the race. The stale read must not produce a second credit
	// once the status is re-checked under the row lock.
	stored, err := s.GetStores().PaymentRepo.Get(s.GetContext(), created.ID)
	s.NoError(err)
	pending := *stored
	pending.PaymentStatus = types.PaymentStatusPending
	pending.ProviderChargeID = nil
	pending.ExternalChargeID = nil
	pending.CompletedAt = nil

	params := s.params
	params.PaymentRepo = &stalePaymentReads{Repository: s.params.PaymentRepo, snapshot: pending}
	racing := NewPaymentService(params)

	second, err := racing.CompletePayment(s.GetContext(), created.ID, &dto.CompletePaymentRequest{
		Currency: types.CurrencyStars,
	})
	s.NoError(err)
	s.False(second.Credited)
	s.Equal(types.PaymentStatusCompleted, second.Payment.PaymentStatus)

	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(int64(100), u.Balance)

	txns, err := s.GetStores().LedgerRepo.ListByUserID(s.GetContext(), s.testData.user.ID, 0)
	s.NoError(err)
	s.Len(txns, 1)
}

func (s *PaymentServiceSuite) TestCompletePaymentRejectsForeignCurrency() {
	created := s.createPayment(100)

	_, err := s.service.CompletePayment(s.GetContext(), created.ID, &dto.CompletePaymentRequest{
		Currency: "USD",
	})
	s.Error(err)
	s.True(ierr.IsInvalidCurrency(err))

	// The payment stays pending and nothing was credited.
	p, err := s.service.GetPayment(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPending, p.PaymentStatus)

	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(int64(0), u.Balance)
}

func (s *PaymentServiceSuite) TestCompletePaymentRejectsAmountMismatch() {
	created := s.createPayment(100)

	_, err := s.service.CompletePayment(s.GetContext(), created.ID, &dto.CompletePaymentRequest{
		Currency: types.CurrencyStars,
		Amount:   250,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestCompletePaymentNotFound() {
	_, err := s.service.CompletePayment(s.GetContext(), "pay_missing", &dto.CompletePaymentRequest{
		Currency: types.CurrencyStars,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestGetPaymentByPayload() {
	created := s.createPayment(100)

	found, err := s.service.GetPaymentByPayload(s.GetContext(), created.InvoicePayload)
	s.NoError(err)
	s.Equal(created.ID, found.ID)
}

func (s *PaymentServiceSuite) TestListPayments() {
	s.createPayment(100)
	s.createPayment(250)
	s.createPayment(500)

	payments, err := s.service.ListPayments(s.GetContext(), s.testData.user.ID, 2)
	s.NoError(err)
	s.Len(payments, 2)
}
