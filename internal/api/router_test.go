package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/taktakmenu/platform/internal/api/dto"
	v1 "github.com/taktakmenu/platform/internal/api/v1"
	"github.com/taktakmenu/platform/internal/rbac"
	"github.com/taktakmenu/platform/internal/rest/middleware"
	"github.com/taktakmenu/platform/internal/service"
	"github.com/taktakmenu/platform/internal/testutil"
	"github.com/taktakmenu/platform/internal/types"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router     *gin.Engine
	adminToken string
	planID     string
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := service.ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		DB:            s.GetDB(),
		TenantRepo:    stores.TenantRepo,
		UserRepo:      stores.UserRepo,
		PlanRepo:      stores.PlanRepo,
		SubRepo:       stores.SubscriptionRepo,
		Hasher:        s.GetHasher(),
		TokenProvider: s.GetTokenProvider(),
	}

	rbacService, err := rbac.NewRBACService(s.GetConfig())
	s.Require().NoError(err)

	userService := service.NewUserService(params)
	subscriptionService := service.NewSubscriptionService(params)

	s.router = NewRouter(Handlers{
		Health:       v1.NewHealthHandler(s.GetLogger()),
		Auth:         v1.NewAuthHandler(service.NewAuthService(params)),
		Plan:         v1.NewPlanHandler(service.NewPlanService(params), s.GetLogger()),
		Tenant:       v1.NewTenantHandler(service.NewTenantService(params, userService, subscriptionService), s.GetLogger()),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, s.GetLogger()),
	}, RouterParams{
		Config:        s.GetConfig(),
		Logger:        s.GetLogger(),
		TokenProvider: s.GetTokenProvider(),
		AccessService: service.NewAccessService(params),
		RateLimiter:   middleware.NewRateLimiter(s.GetConfig()),
		Permissions:   middleware.NewPermissionMiddleware(rbacService, s.GetLogger()),
	})

	_, err = userService.CreateUser(s.GetContext(), service.CreateUserParams{
		Email:    "root@taktakmenu.test",
		FullName: "Root",
		Password: "rootpass",
		Role:     types.UserRoleSysAdmin,
	})
	s.Require().NoError(err)
	s.adminToken = s.login("root@taktakmenu.test", "rootpass")

	s.planID = s.CreatePlan("Starter", "9.99", types.BillingPeriodUnitMonth, 1).ID
}

func (s *RouterSuite) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(types.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) login(email, password string) string {
	w := s.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (s *RouterSuite) provision(subdomain string) dto.TenantResponse {
	w := s.do(http.MethodPost, "/v1/tenants", s.adminToken, dto.CreateTenantRequest{
		Email:     "owner@" + subdomain + ".test",
		FullName:  "Owner",
		Password:  "secret123",
		Subdomain: subdomain,
		PlanID:    s.planID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TenantResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *RouterSuite) TestHealth() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/health", "", nil).Code)
}

func (s *RouterSuite) TestPublicPlansNeedNoToken() {
	w := s.do(http.MethodGet, "/v1/plans/public", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Starter")

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/v1/plans", "", nil).Code)
}

func (s *RouterSuite) TestProvisionAndPublicProfile() {
	tenant := s.provision("burgers")
	s.NotEmpty(tenant.AdminUserID)
	s.Require().NotNil(tenant.Subscription)

	s.Run("by header", func() {
		w := s.do(http.MethodGet, "/v1/tenants/public/profile", "", nil, types.HeaderTenantSubdomain, "burgers")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
		s.Contains(w.Body.String(), `"subdomain":"burgers"`)
	})

	s.Run("by host", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/tenants/public/profile", nil)
		req.Host = "burgers.taktakmenu.com"
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("unknown subdomain", func() {
		w := s.do(http.MethodGet, "/v1/tenants/public/profile", "", nil, types.HeaderTenantSubdomain, "nobody")
		s.Equal(http.StatusForbidden, w.Code)
		s.Contains(w.Body.String(), "Tenant not found")
	})

	s.Run("duplicate subdomain", func() {
		w := s.do(http.MethodPost, "/v1/tenants", s.adminToken, dto.CreateTenantRequest{
			Email:     "other@burgers.test",
			FullName:  "Other",
			Password:  "secret123",
			Subdomain: "burgers",
			PlanID:    s.planID,
		})
		s.Equal(http.StatusConflict, w.Code)
		s.Contains(w.Body.String(), "Subdomain already exists")
	})
}

func (s *RouterSuite) TestExpiredSubscriptionIsRefused() {
	tenant := s.provision("tacos")

	repo := s.GetStores().SubscriptionRepo
	sub, err := repo.GetActive(s.GetContext(), tenant.ID)
	s.Require().NoError(err)
	sub.EndDate = time.Now().UTC().Add(-time.Second)
	s.Require().NoError(repo.Update(s.GetContext(), sub))

	w := s.do(http.MethodGet, "/v1/tenants/public/profile", "", nil, types.HeaderTenantSubdomain, "tacos")
	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "Subscription expired")

	stored, err := repo.Get(s.GetContext(), sub.ID)
	s.Require().NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.Status)
}

func (s *RouterSuite) TestProfileUpdateIsGatedOnCallerTenant() {
	tenant := s.provision("tacos")
	s.provision("pizza")

	repo := s.GetStores().SubscriptionRepo
	sub, err := repo.GetActive(s.GetContext(), tenant.ID)
	s.Require().NoError(err)
	sub.EndDate = time.Now().UTC().Add(-time.Second)
	s.Require().NoError(repo.Update(s.GetContext(), sub))

	token := s.login("owner@tacos.test", "secret123")
	body := dto.UpdateTenantProfileRequest{Name: ptr("hijacked")}

	s.Run("own expired tenant", func() {
		w := s.do(http.MethodPut, "/v1/tenants/profile", token, body)
		s.Equal(http.StatusForbidden, w.Code)
		s.Contains(w.Body.String(), "Subscription expired")
	})

	s.Run("addressing another active tenant", func() {
		w := s.do(http.MethodPut, "/v1/tenants/profile", token, body, types.HeaderTenantSubdomain, "pizza")
		s.Equal(http.StatusForbidden, w.Code)
		s.Contains(w.Body.String(), "You do not have access to this tenant")
	})

	stored, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), tenant.ID)
	s.Require().NoError(err)
	s.NotEqual("hijacked", stored.Name)
}

func (s *RouterSuite) TestTenantAdminScope() {
	tenant := s.provision("sushi")
	token := s.login("owner@sushi.test", "secret123")

	s.Run("own profile update passes the guard", func() {
		w := s.do(http.MethodPut, "/v1/tenants/profile", token, dto.UpdateTenantProfileRequest{
			Description: ptr("Fresh fish daily"),
		})
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("own subscriptions", func() {
		w := s.do(http.MethodGet, "/v1/subscriptions/tenant/"+tenant.ID+"/active", token, nil)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("other tenant subscriptions", func() {
		other := s.provision("ramen")
		w := s.do(http.MethodGet, "/v1/subscriptions/tenant/"+other.ID, token, nil)
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("operator routes", func() {
		s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/v1/tenants", token, nil).Code)
		s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/v1/subscriptions/change", token, dto.ChangeSubscriptionRequest{
			TenantID: tenant.ID,
			PlanID:   s.planID,
		}).Code)
	})
}

func (s *RouterSuite) TestSubscriptionLifecycle() {
	tenant := s.provision("curry")
	premium := s.CreatePlan("Premium", "49.00", types.BillingPeriodUnitYear, 1)

	w := s.do(http.MethodPost, "/v1/subscriptions/change", s.adminToken, dto.ChangeSubscriptionRequest{
		TenantID: tenant.ID,
		PlanID:   premium.ID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var changed dto.SubscriptionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &changed))

	w = s.do(http.MethodPatch, "/v1/subscriptions/"+changed.ID+"/disable", s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/v1/subscriptions/tenant/"+tenant.ID, s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var history dto.ListSubscriptionsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	s.Len(history.Items, 2)
	for _, item := range history.Items {
		s.NotEqual(types.SubscriptionStatusActive, item.Status)
	}

	w = s.do(http.MethodGet, "/v1/tenants/public/profile", "", nil, types.HeaderTenantSubdomain, "curry")
	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "No active subscription found")

	w = s.do(http.MethodDelete, "/v1/plans/"+premium.ID, s.adminToken, nil)
	s.Equal(http.StatusConflict, w.Code)
}

func ptr[T any](v T) *T { return &v }
