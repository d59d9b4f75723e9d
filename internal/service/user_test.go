package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/waterdropvpn/starcore/internal/api/dto"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/testutil"
)

type UserServiceSuite struct {
	testutil.BaseServiceTestSuite
	service UserService
	params  ServiceParams
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
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
	s.service = NewUserService(s.params)
}

func (s *UserServiceSuite) register(externalID int64, referralCode string) *dto.RegisterUserResponse {
	resp, err := s.service.Register(s.GetContext(), &dto.RegisterUserRequest{
		ExternalID:   externalID,
		Username:     "tester",
		FirstName:    "Test",
		ReferralCode: referralCode,
	})
	s.NoError(err)
	return resp
}

func (s *UserServiceSuite) TestRegisterNewUser() {
	resp := s.register(1001, "")

	s.True(resp.Created)
	s.Equal(int64(1001), resp.User.ExternalID)
	s.NotEmpty(resp.User.ReferralCode)
	s.Nil(resp.User.InvitedBy)
	s.Equal(int64(0), resp.User.Balance)

	// First contact opens the trial window.
	trialEnd := s.GetNow().Add(time.Duration(s.GetConfig().Trial.Hours) * time.Hour)
	s.WithinDuration(trialEnd, resp.User.ExpiresAt, 5*time.Second)
}

func (s *UserServiceSuite) TestRegisterExistingUserRefreshesActivity() {
	first := s.register(1001, "")
	second := s.register(1001, "")

	s.False(second.Created)
	s.Equal(first.User.ID, second.User.ID)
	// The trial is not re-granted.
	s.True(second.User.ExpiresAt.Equal(first.User.ExpiresAt))
}

func (s *UserServiceSuite) TestReferralBonusGranted() {
	inviter := s.register(1001, "")
	invitee := s.register(2002, inviter.User.ReferralCode)

	s.True(invitee.Created)
	s.NotNil(invitee.User.InvitedBy)
	s.Equal(inviter.User.ReferralCode, *invitee.User.InvitedBy)

	// Inviter got the bonus days on top of a live expiry, plus the stars.
	u, err := s.GetStores().UserRepo.Get(s.GetContext(), inviter.User.ID)
	s.NoError(err)
	expected := inviter.User.ExpiresAt.AddDate(0, 0, s.GetConfig().Referral.BonusDays)
	s.WithinDuration(expected, u.ExpiresAt, 5*time.Second)
	s.Equal(s.GetConfig().Referral.BonusStars, u.Balance)
	s.Equal(s.GetConfig().Referral.BonusStars, u.TotalEarned)

	txns, err := s.GetStores().LedgerRepo.ListByUserID(s.GetContext(), inviter.User.ID, 0)
	s.NoError(err)
	s.Len(txns, 1)
}

func (s *UserServiceSuite) TestReferralBonusGrantedOnce() {
	inviter := s.register(1001, "")
	s.register(2002, inviter.User.ReferralCode)

	// The invitee returns; the inviter must not be paid again.
	s.register(2002, inviter.User.ReferralCode)

	u, err := s.GetStores().UserRepo.Get(s.GetContext(), inviter.User.ID)
	s.NoError(err)
	s.Equal(s.GetConfig().Referral.BonusStars, u.Balance)

	txns, err := s.GetStores().LedgerRepo.ListByUserID(s.GetContext(), inviter.User.ID, 0)
	s.NoError(err)
	s.Len(txns, 1)
}

func (s *UserServiceSuite) TestReferralBonusExtendsFromNowWhenLapsed() {
	inviter := s.register(1001, "")

	// Lapse the inviter's access before the invite lands.
	u, err := s.GetStores().UserRepo.Get(s.GetContext(), inviter.User.ID)
	s.NoError(err)
	u.ExpiresAt = s.GetNow().Add(-48 * time.Hour)
	s.NoError(s.GetStores().UserRepo.Update(s.GetContext(), u))

	s.register(2002, inviter.User.ReferralCode)

	u, err = s.GetStores().UserRepo.Get(s.GetContext(), inviter.User.ID)
	s.NoError(err)
	expected := time.Now().UTC().AddDate(0, 0, s.GetConfig().Referral.BonusDays)
	s.WithinDuration(expected, u.ExpiresAt, 5*time.Second)
}

func (s *UserServiceSuite) TestUnknownReferralCodeIgnored() {
	resp := s.register(1001, "nosuchcode")

	s.True(resp.Created)
	s.Nil(resp.User.InvitedBy)
}

func (s *UserServiceSuite) TestRegisterRejectsInvalidExternalID() {
	_, err := s.service.Register(s.GetContext(), &dto.RegisterUserRequest{
		ExternalID: 0,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *UserServiceSuite) TestGetProfile() {
	inviter := s.register(1001, "")
	s.register(2002, inviter.User.ReferralCode)
	s.register(3003, inviter.User.ReferralCode)

	profile, err := s.service.GetProfile(s.GetContext(), inviter.User.ID)
	s.NoError(err)
	s.Equal(2, profile.ReferralCount)
	s.True(profile.HasAccess)
	s.Nil(profile.Subscription)
}

func (s *UserServiceSuite) TestGetUserByExternalID() {
	created := s.register(1001, "")

	found, err := s.service.GetUserByExternalID(s.GetContext(), 1001)
	s.NoError(err)
	s.Equal(created.User.ID, found.ID)

	_, err = s.service.GetUserByExternalID(s.GetContext(), 4242)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
