package service

import (
	"github.com/waterdropvpn/starcore/internal/cache"
	"github.com/waterdropvpn/starcore/internal/config"
	"github.com/waterdropvpn/starcore/internal/domain/credential"
	"github.com/waterdropvpn/starcore/internal/domain/ledger"
	"github.com/waterdropvpn/starcore/internal/domain/payment"
	"github.com/waterdropvpn/starcore/internal/domain/plan"
	"github.com/waterdropvpn/starcore/internal/domain/subscription"
	"github.com/waterdropvpn/starcore/internal/domain/user"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	UserRepo       user.Repository
	PlanRepo       plan.Repository
	SubRepo        subscription.Repository
	PaymentRepo    payment.Repository
	LedgerRepo     ledger.Repository
	CredentialRepo credential.Repository
}

// NewServiceParams bundles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	userRepo user.Repository,
	planRepo plan.Repository,
	subRepo subscription.Repository,
	paymentRepo payment.Repository,
	ledgerRepo ledger.Repository,
	credentialRepo credential.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		Cache:          cache,
		UserRepo:       userRepo,
		PlanRepo:       planRepo,
		SubRepo:        subRepo,
		PaymentRepo:    paymentRepo,
		LedgerRepo:     ledgerRepo,
		CredentialRepo: credentialRepo,
	}
}
