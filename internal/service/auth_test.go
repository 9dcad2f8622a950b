package service

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/taktakmenu/platform/internal/api/dto"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/testutil"
	"github.com/taktakmenu/platform/internal/types"
)

type AuthServiceSuite struct {
	testutil.BaseServiceTestSuite
	auth  AuthService
	users UserService
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.auth = NewAuthService(params)
	s.users = NewUserService(params)
}

func (s *AuthServiceSuite) TestLogin() {
	tenantID := "tenant_login"
	created, err := s.users.CreateUser(s.GetContext(), CreateUserParams{
		Email:    "Chef@Example.com",
		FullName: "Chef",
		Password: "secret123",
		Role:     types.UserRoleSuperAdmin,
		TenantID: &tenantID,
	})
	s.Require().NoError(err)
	s.Equal("chef@example.com", created.Email)

	s.Run("valid credentials", func() {
		resp, err := s.auth.Login(s.GetContext(), dto.LoginRequest{Email: "CHEF@example.com", Password: "secret123"})
		s.Require().NoError(err)
		s.Equal(created.ID, resp.UserID)
		s.Equal(tenantID, resp.TenantID)

		claims, err := s.GetTokenProvider().ValidateToken(resp.Token)
		s.Require().NoError(err)
		s.Equal(created.ID, claims.UserID)
		s.Equal(tenantID, claims.TenantID)
		s.Equal(types.UserRoleSuperAdmin, claims.Role)
	})

	s.Run("wrong password", func() {
		_, err := s.auth.Login(s.GetContext(), dto.LoginRequest{Email: "chef@example.com", Password: "wrong-pass"})
		s.True(ierr.IsUnauthorized(err))
	})

	s.Run("unknown email", func() {
		_, err := s.auth.Login(s.GetContext(), dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
		s.True(ierr.IsUnauthorized(err))
	})
}

func (s *AuthServiceSuite) TestEnsureSystemAdmin() {
	s.Run("disabled", func() {
		s.NoError(s.users.EnsureSystemAdmin(s.GetContext()))
		count, err := s.GetStores().UserRepo.Count(s.GetContext())
		s.NoError(err)
		s.Zero(count)
	})

	s.Run("seeds once", func() {
		params := newTestServiceParams(&s.BaseServiceTestSuite)
		cfg := *params.Config
		cfg.Auth.SeedAdmin.Enabled = true
		cfg.Auth.SeedAdmin.Email = "root@example.com"
		cfg.Auth.SeedAdmin.Password = "changeme"
		params.Config = &cfg
		users := NewUserService(params)

		s.NoError(users.EnsureSystemAdmin(s.GetContext()))
		s.NoError(users.EnsureSystemAdmin(s.GetContext()))

		count, err := s.GetStores().UserRepo.Count(s.GetContext())
		s.NoError(err)
		s.Equal(1, count)

		admin, err := s.GetStores().UserRepo.GetByEmail(s.GetContext(), "root@example.com")
		s.Require().NoError(err)
		s.Equal(types.UserRoleSysAdmin, admin.Role)
		s.Nil(admin.TenantID)

		resp, err := NewAuthService(params).Login(s.GetContext(), dto.LoginRequest{Email: "root@example.com", Password: "changeme"})
		s.NoError(err)
		s.Empty(resp.TenantID)
	})
}
