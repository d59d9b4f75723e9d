package repository

import (
	"github.com/waterdropvpn/starcore/internal/domain/credential"
	"github.com/waterdropvpn/starcore/internal/domain/ledger"
	"github.com/waterdropvpn/starcore/internal/domain/payment"
	"github.com/waterdropvpn/starcore/internal/domain/plan"
	"github.com/waterdropvpn/starcore/internal/domain/subscription"
	"github.com/waterdropvpn/starcore/internal/domain/user"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
	postgresRepo "github.com/waterdropvpn/starcore/internal/repository/postgres"
)

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}

func NewLedgerRepository(db *postgres.DB, logger *logger.Logger) ledger.Repository {
	return postgresRepo.NewLedgerRepository(db, logger)
}

func NewCredentialRepository(db *postgres.DB, logger *logger.Logger) credential.Repository {
	return postgresRepo.NewCredentialRepository(db, logger)
}
