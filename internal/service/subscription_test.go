package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/waterdropvpn/starcore/internal/api/dto"
	"github.com/waterdropvpn/starcore/internal/domain/plan"
	"github.com/waterdropvpn/starcore/internal/domain/user"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/testutil"
	"github.com/waterdropvpn/starcore/internal/types"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  SubscriptionService
	params   ServiceParams
	testData struct {
		user      *user.User
		planMonth *plan.Plan
		planYear  *plan.Plan
	}
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *SubscriptionServiceSuite) setupService() {
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
	s.service = NewSubscriptionService(s.params)
}

func (s *SubscriptionServiceSuite) setupTestData() {
	s.testData.user = &user.User{
		ID:             "user_test_sub",
		ExternalID:     111222333,
		ReferralCode:   "subcode",
		Balance:        0,
		ExpiresAt:      s.GetNow().Add(24 * time.Hour),
		RegisteredAt:   s.GetNow(),
		LastActivityAt: s.GetNow(),
		BaseModel:      types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().UserRepo.Create(s.GetContext(), s.testData.user))

	s.testData.planMonth = &plan.Plan{
		ID:           "plan_1month",
		Name:         "1 month",
		DurationDays: 30,
		Price:        100,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	s.testData.planYear = &plan.Plan{
		ID:           "plan_1year",
		Name:         "1 year",
		DurationDays: 365,
		Price:        500,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testData.planMonth))
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testData.planYear))
}

func (s *SubscriptionServiceSuite) topUp(amount int64) {
	ledgerService := NewLedgerService(s.params)
	_, err := ledgerService.Credit(s.GetContext(), s.testData.user.ID, amount,
		types.TransactionKindDeposit, "top-up")
	s.NoError(err)
}

func (s *SubscriptionServiceSuite) TestPurchase() {
	s.topUp(150)

	resp, err := s.service.Purchase(s.GetContext(), &dto.PurchaseRequest{
		UserID: s.testData.user.ID,
		PlanID: s.testData.planMonth.ID,
	})
	s.NoError(err)
	s.Equal(30, resp.DurationDays)
	s.Equal(int64(100), resp.StarsUsed)
	s.Equal(int64(50), resp.RemainingBalance)
	s.True(resp.Subscription.Active)

	// The user's access window now matches the subscription end date.
	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(int64(50), u.Balance)
	s.True(u.ExpiresAt.Equal(resp.Subscription.EndDate))

	// A credential was cut for the new window.
	s.NotNil(resp.Credential)
	s.True(resp.Credential.ExpiresAt.Equal(resp.Subscription.EndDate))
}

func (s *SubscriptionServiceSuite) TestPurchaseInsufficientBalance() {
	s.topUp(50)

	_, err := s.service.Purchase(s.GetContext(), &dto.PurchaseRequest{
		UserID: s.testData.user.ID,
		PlanID: s.testData.planMonth.ID,
	})
	s.Error(err)
	s.True(ierr.IsInsufficientBalance(err))

	// Nothing was charged, no subscription exists.
	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(int64(50), u.Balance)

	_, err = s.GetStores().SubRepo.GetActiveByUserID(s.GetContext(), s.testData.user.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestPurchaseReplacesActiveSubscription() {
	s.topUp(600)

	first, err := s.service.Purchase(s.GetContext(), &dto.PurchaseRequest{
		UserID: s.testData.user.ID,
		PlanID: s.testData.planMonth.ID,
	})
	s.NoError(err)

	second, err := s.service.Purchase(s.GetContext(), &dto.PurchaseRequest{
		UserID: s.testData.user.ID,
		PlanID: s.testData.planYear.ID,
	})
	s.NoError(err)

	// Durations do not stack: the year starts now, not after the month.
	s.True(second.Subscription.EndDate.Before(first.Subscription.EndDate.AddDate(0, 0, 365)))

	subs, err := s.GetStores().SubRepo.ListByUserID(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Len(subs, 2)

	active, err := s.GetStores().SubRepo.GetActiveByUserID(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(second.Subscription.ID, active.ID)

	activeCount := 0
	for _, sub := range subs {
		if sub.Active {
			activeCount++
		}
	}
	s.Equal(1, activeCount)
}

func (s *SubscriptionServiceSuite) TestPurchaseUnknownPlan() {
	s.topUp(500)

	_, err := s.service.Purchase(s.GetContext(), &dto.PurchaseRequest{
		UserID: s.testData.user.ID,
		PlanID: "plan_missing",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestPurchaseUnknownUser() {
	// The user is resolved before the plan, so a request that gets both
	// wrong reports the missing user.
	_, err := s.service.Purchase(s.GetContext(), &dto.PurchaseRequest{
		UserID: "user_missing",
		PlanID: "plan_missing",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
	s.ErrorContains(err, "user not found")
}

func (s *SubscriptionServiceSuite) TestGetPlansSortedByPrice() {
	plans, err := s.service.GetPlans(s.GetContext())
	s.NoError(err)
	s.Len(plans, 2)
	s.Equal("plan_1month", plans[0].ID)
	s.Equal("plan_1year", plans[1].ID)
}

func (s *SubscriptionServiceSuite) TestGetPlansServedFromCache() {
	_, err := s.service.GetPlans(s.GetContext())
	s.NoError(err)

	// A plan added after the first read is invisible until the cache expires.
	extra := &plan.Plan{
		ID:           "plan_extra",
		Name:         "extra",
		DurationDays: 10,
		Price:        50,
		BaseModel:    types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), extra))

	plans, err := s.service.GetPlans(s.GetContext())
	s.NoError(err)
	s.Len(plans, 2)
}

func (s *SubscriptionServiceSuite) TestStatusForTrialUser() {
	resp, err := s.service.Status(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.True(resp.Active)
	s.Nil(resp.Subscription)
	s.Equal(0, resp.DaysLeft)
}

func (s *SubscriptionServiceSuite) TestStatusAfterPurchase() {
	s.topUp(100)
	_, err := s.service.Purchase(s.GetContext(), &dto.PurchaseRequest{
		UserID: s.testData.user.ID,
		PlanID: s.testData.planMonth.ID,
	})
	s.NoError(err)

	resp, err := s.service.Status(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.True(resp.Active)
	s.NotNil(resp.Subscription)
	s.Equal("1 month", resp.PlanName)
	s.Equal(29, resp.DaysLeft)
}

func (s *SubscriptionServiceSuite) TestStatusForExpiredUser() {
	expired := &user.User{
		ID:             "user_expired",
		ExternalID:     999888777,
		ReferralCode:   "oldcode",
		ExpiresAt:      s.GetNow().Add(-time.Hour),
		RegisteredAt:   s.GetNow().Add(-48 * time.Hour),
		LastActivityAt: s.GetNow(),
		BaseModel:      types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().UserRepo.Create(s.GetContext(), expired))

	resp, err := s.service.Status(s.GetContext(), expired.ID)
	s.NoError(err)
	s.False(resp.Active)
	s.Equal(0, resp.DaysLeft)
}
