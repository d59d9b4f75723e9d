package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/waterdropvpn/starcore/internal/domain/user"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
	"github.com/waterdropvpn/starcore/internal/testutil"
	"github.com/waterdropvpn/starcore/internal/types"
)

type CredentialServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  CredentialService
	params   ServiceParams
	testData struct {
		user *user.User
	}
}

func TestCredentialService(t *testing.T) {
	suite.Run(t, new(CredentialServiceSuite))
}

func (s *CredentialServiceSuite) SetupTest() {
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
	s.service = NewCredentialService(s.params)
	s.setupTestData()
}

func (s *CredentialServiceSuite) setupTestData() {
	s.testData.user = &user.User{
		ID:             "user_test_cred",
		ExternalID:     445566,
		ReferralCode:   "credcode",
		ExpiresAt:      s.GetNow().Add(24 * time.Hour),
		RegisteredAt:   s.GetNow(),
		LastActivityAt: s.GetNow(),
		BaseModel:      types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().UserRepo.Create(s.GetContext(), s.testData.user))
}

func (s *CredentialServiceSuite) TestIssue() {
	resp, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)

	s.NotEmpty(resp.UUID)
	s.True(resp.Active)
	s.True(resp.ExpiresAt.Equal(s.testData.user.ExpiresAt))
	s.Equal("user445566@example.com", resp.Email)
	s.True(strings.HasPrefix(resp.Path, s.GetConfig().VPN.BasePath))
	// Base path plus ten hex characters.
	s.Len(resp.Path, len(s.GetConfig().VPN.BasePath)+10)
}

func (s *CredentialServiceSuite) TestIssueSupersedesPrevious() {
	first, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)

	second, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.NotEqual(first.UUID, second.UUID)

	// Only the newest credential stays active.
	creds, err := s.GetStores().CredentialRepo.ListByUserID(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Len(creds, 2)

	active, err := s.GetStores().CredentialRepo.GetActiveByUserID(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(second.ID, active.ID)
}

func (s *CredentialServiceSuite) TestReissueRotatesPath() {
	first, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)

	// The path is salted per issuance; a replacement credential must not
	// collide with the prior path while old clients drain.
	second, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.NotEqual(first.Path, second.Path)
	s.True(strings.HasPrefix(second.Path, s.GetConfig().VPN.BasePath))
	s.Len(second.Path, len(s.GetConfig().VPN.BasePath)+10)
}

func (s *CredentialServiceSuite) TestGetIssuesWhenMissing() {
	resp, err := s.service.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.NotEmpty(resp.UUID)
}

func (s *CredentialServiceSuite) TestGetReturnsExisting() {
	issued, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)

	got, err := s.service.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(issued.ID, got.ID)
	s.Equal(issued.UUID, got.UUID)
}

func (s *CredentialServiceSuite) TestGetReissuesAfterAccessExtension() {
	issued, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)

	// A purchase or bonus pushed the user's expiry past the credential's.
	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	u.ExpiresAt = u.ExpiresAt.AddDate(0, 0, 30)
	s.NoError(s.GetStores().UserRepo.Update(s.GetContext(), u))

	got, err := s.service.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.NotEqual(issued.ID, got.ID)
	s.True(got.ExpiresAt.Equal(u.ExpiresAt))
}

func (s *CredentialServiceSuite) TestGetRejectsExpiredAccess() {
	u, err := s.GetStores().UserRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	u.ExpiresAt = s.GetNow().Add(-time.Hour)
	s.NoError(s.GetStores().UserRepo.Update(s.GetContext(), u))

	_, err = s.service.Get(s.GetContext(), s.testData.user.ID)
	s.Error(err)
	s.True(ierr.IsCredentialExpired(err))
}

func (s *CredentialServiceSuite) TestConnectionLinks() {
	resp, err := s.service.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Len(resp.Links, len(types.MaskingProfiles()))

	primary := resp.Links[string(types.MaskingProfilePrimary)]
	s.True(strings.HasPrefix(primary, "vless://"+resp.UUID+"@vpn.example.com:443?"))
	s.NotContains(primary, "fp=chrome")
	s.NotContains(primary, "alpn=")
	// Path slashes are percent-encoded.
	s.Contains(primary, "path=%2Fvless%2F")

	netflix := resp.Links[string(types.MaskingProfileNetflix)]
	s.Contains(netflix, "fp=chrome")
	s.Contains(netflix, "alpn=h2,http/1.1")
	s.Contains(netflix, "Netflix")
}

func (s *CredentialServiceSuite) TestRevoke() {
	_, err := s.service.Issue(s.GetContext(), s.testData.user.ID)
	s.NoError(err)

	s.NoError(s.service.Revoke(s.GetContext(), s.testData.user.ID))

	_, err = s.GetStores().CredentialRepo.GetActiveByUserID(s.GetContext(), s.testData.user.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
