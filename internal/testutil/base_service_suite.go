package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
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
	"github.com/waterdropvpn/starcore/internal/types"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	UserRepo       user.Repository
	PlanRepo       plan.Repository
	SubRepo        subscription.Repository
	PaymentRepo    payment.Repository
	LedgerRepo     ledger.Repository
	CredentialRepo credential.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = types.SetRequestID(s.ctx, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		UserRepo:       NewInMemoryUserStore(),
		PlanRepo:       NewInMemoryPlanStore(),
		SubRepo:        NewInMemorySubscriptionStore(),
		PaymentRepo:    NewInMemoryPaymentStore(),
		LedgerRepo:     NewInMemoryLedgerStore(),
		CredentialRepo: NewInMemoryCredentialStore(),
	}
	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.UserRepo.(*InMemoryUserStore).Clear()
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
	s.stores.SubRepo.(*InMemorySubscriptionStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.stores.LedgerRepo.(*InMemoryLedgerStore).Clear()
	s.stores.CredentialRepo.(*InMemoryCredentialStore).Clear()
}

// ClearStores resets all stores mid-test
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
