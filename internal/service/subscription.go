package service

import (
	"context"
	"fmt"
	"time"

	"github.com/waterdropvpn/starcore/internal/api/dto"
	"github.com/waterdropvpn/starcore/internal/cache"
	"github.com/waterdropvpn/starcore/internal/domain/subscription"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/types"
)

const planListCacheKey = "list"

// SubscriptionService sells plan time for stars. A user holds at most one
// active subscription; buying a new plan replaces whatever was active
// before, so plan durations never stack.
type SubscriptionService interface {
	Purchase(ctx context.Context, req *dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	GetActive(ctx context.Context, userID string) (*dto.SubscriptionResponse, error)
	Status(ctx context.Context, userID string) (*dto.SubscriptionStatusResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

// Purchase debits the plan price, retires the previous subscription,
// activates the new one and advances the user's paid access to the new
// end date. All four steps commit together or not at all, so a failed
// purchase never leaves the user charged without access.
func (s *subscriptionService) Purchase(ctx context.Context, req *dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.UserRepo.Get(ctx, req.UserID); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	ledgerService := NewLedgerService(s.ServiceParams)

	var sub *subscription.Subscription
	var remaining int64

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		remaining, err = ledgerService.Debit(ctx, req.UserID, p.Price,
			types.TransactionKindPurchase,
			fmt.Sprintf("Plan purchase: %s", p.Name))
		if err != nil {
			return err
		}

		if err := s.SubRepo.DeactivateByUserID(ctx, req.UserID); err != nil {
			return err
		}

		now := time.Now().UTC()
		endDate := now.AddDate(0, 0, p.DurationDays)
		sub = &subscription.Subscription{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
			UserID:    req.UserID,
			PlanID:    p.ID,
			StartDate: now,
			EndDate:   endDate,
			Active:    true,
			StarsPaid: p.Price,
			BaseModel: types.GetDefaultBaseModel(),
		}
		if err := s.SubRepo.Create(ctx, sub); err != nil {
			return err
		}

		u, err := s.UserRepo.GetForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}
		u.ExpiresAt = endDate
		u.UpdatedAt = now
		return s.UserRepo.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription purchased",
		"user_id", req.UserID,
		"plan_id", p.ID,
		"stars_paid", p.Price,
		"end_date", sub.EndDate,
	)

	// Credentials are cut over outside the purchase transaction; the
	// paid access above is already durable even if issuance fails.
	credentialService := NewCredentialService(s.ServiceParams)
	cred, err := credentialService.Issue(ctx, req.UserID)
	if err != nil {
		s.Logger.Errorw("failed to reissue credential after purchase",
			"user_id", req.UserID,
			"error", err,
		)
	}

	resp := &dto.PurchaseResponse{
		Subscription:     dto.NewSubscriptionResponse(sub),
		DurationDays:     p.DurationDays,
		StarsUsed:        p.Price,
		RemainingBalance: remaining,
	}
	if cred != nil {
		resp.Credential = cred
	}
	return resp, nil
}

// GetPlans lists the purchasable plan catalog, cheapest first. The
// catalog changes rarely, so reads go through the cache.
func (s *subscriptionService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	cacheKey := cache.GenerateKey(cache.PrefixPlan, planListCacheKey)
	if cached, found := s.Cache.Get(ctx, cacheKey); found {
		if plans, ok := cached.([]*dto.PlanResponse); ok {
			return plans, nil
		}
	}

	plans, err := s.PlanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PlanResponse, len(plans))
	for i, p := range plans {
		items[i] = dto.NewPlanResponse(p)
	}

	s.Cache.Set(ctx, cacheKey, items, 5*time.Minute)
	return items, nil
}

// GetPlan gets a plan by ID
func (s *subscriptionService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}

// GetActive returns the user's active subscription.
func (s *subscriptionService) GetActive(ctx context.Context, userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubscriptionResponse(sub), nil
}

// Status reports whether the user currently has paid or trial access and
// when it runs out. Access is driven by the user's expiry timestamp, so
// trial users without any subscription row still show up as active.
func (s *subscriptionService) Status(ctx context.Context, userID string) (*dto.SubscriptionStatusResponse, error) {
	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.SubscriptionStatusResponse{
		UserID:    u.ID,
		Active:    u.HasAccess(now),
		ExpiresAt: u.ExpiresAt,
	}
	if u.ExpiresAt.After(now) {
		resp.DaysLeft = int(u.ExpiresAt.Sub(now).Hours() / 24)
	}

	sub, err := s.SubRepo.GetActiveByUserID(ctx, userID)
	if err == nil {
		resp.Subscription = dto.NewSubscriptionResponse(sub)
		if p, perr := s.PlanRepo.Get(ctx, sub.PlanID); perr == nil {
			resp.PlanName = p.Name
		}
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}
	return resp, nil
}
