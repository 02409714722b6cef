package httptransport_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	adminhandler "pccreg/internal/admin/handler"
	adminservice "pccreg/internal/admin/service"
	adminstore "pccreg/internal/admin/store"
	audithandler "pccreg/internal/audit/handler"
	auditservice "pccreg/internal/audit/service"
	auditstore "pccreg/internal/audit/store"
	contenthandler "pccreg/internal/content/handler"
	contentservice "pccreg/internal/content/service"
	contentstore "pccreg/internal/content/store"
	jwttoken "pccreg/internal/jwt_token"
	rlservice "pccreg/internal/ratelimit/service"
	rlstore "pccreg/internal/ratelimit/store"
	reghandler "pccreg/internal/registration/handler"
	regservice "pccreg/internal/registration/service"
	regstore "pccreg/internal/registration/store"
	"pccreg/internal/seed"
	"pccreg/internal/siteconfig"
	httptransport "pccreg/internal/transport/http"
	"pccreg/internal/upload"
	"pccreg/pkg/testutil"
)

// RouterSuite wires the full route tree over in-memory stores and checks the
// composition: middleware order, auth gating, and per-route rate limits.
type RouterSuite struct {
	suite.Suite

	router http.Handler
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auditRecorder := auditservice.NewRecorder(auditstore.NewInMemory(), auditservice.WithLogger(logger))
	tokens := jwttoken.NewJWTService("router-test-key", "pccreg")

	configService := siteconfig.NewService(siteconfig.NewInMemoryStore(),
		siteconfig.WithLogger(logger),
		siteconfig.WithAuditEmitter(auditRecorder),
	)

	registrationService, err := regservice.New(regstore.NewInMemory(), configService,
		regservice.WithLogger(logger),
		regservice.WithAuditEmitter(auditRecorder),
	)
	s.Require().NoError(err)

	contentService, err := contentservice.New(contentstore.NewInMemory(), configService,
		contentservice.WithLogger(logger),
		contentservice.WithAuditEmitter(auditRecorder),
	)
	s.Require().NoError(err)

	limiter, err := rlservice.New(rlstore.NewInMemory(), rlservice.WithLogger(logger))
	s.Require().NoError(err)

	adminService, err := adminservice.New(adminstore.NewInMemory(), tokens,
		adminservice.WithLogger(logger),
		adminservice.WithLoginLimiter(limiter),
		adminservice.WithAuditEmitter(auditRecorder),
	)
	s.Require().NoError(err)

	_, err = adminService.Bootstrap(context.Background(), "admin", "router-test-password")
	s.Require().NoError(err)

	blobs, err := upload.NewLocalStore(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)

	s.router = httptransport.New(httptransport.Deps{
		Logger:        logger,
		Tokens:        tokens,
		Limiter:       limiter,
		Registrations: reghandler.New(registrationService, logger),
		SiteConfig:    siteconfig.NewHandler(configService, logger),
		Content:       contenthandler.New(contentService, logger),
		Auth:          adminhandler.New(adminService, logger),
		Audit:         audithandler.New(auditRecorder, logger),
		Upload:        upload.NewHandler(upload.New(blobs, upload.WithLogger(logger)), logger),
		Seed:          seed.NewHandler("seed-secret", "admin", "router-test-password", adminService, configService, logger),
	})
}

func (s *RouterSuite) login() string {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "router-test-password",
	})
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)

	body := testutil.UnmarshalResponse[struct {
		Token string `json:"token"`
	}](s.T(), rr)
	s.Require().NotEmpty(body.Token)
	return body.Token
}

func (s *RouterSuite) TestHealthz() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"status":"ok"}`, rr.Body.String())
}

func (s *RouterSuite) TestMetricsExposed() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/metrics", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "go_goroutines")
}

func (s *RouterSuite) TestPublicRoutesReachable() {
	for _, path := range []string{"/api/config", "/api/registrations", "/api/registrations/quota", "/api/team", "/api/sponsors", "/api/qna"} {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil)
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code, "GET %s", path)
	}
}

func (s *RouterSuite) TestRequestIDHeaderSet() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/config", nil)
	rr := testutil.DoRequest(s.router, req)

	s.NotEmpty(rr.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestAdminRoutesRequireToken() {
	for _, path := range []string{"/api/admin/registrations", "/api/admin/config", "/api/admin/me", "/api/admin/audit"} {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil)
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusUnauthorized, rr.Code, "GET %s", path)
	}
}

func (s *RouterSuite) TestAdminRoutesWithToken() {
	token := s.login()

	for _, path := range []string{"/api/admin/registrations", "/api/admin/config", "/api/admin/me", "/api/admin/audit"} {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code, "GET %s", path)
	}
}

func (s *RouterSuite) TestSubmitHasTighterLimit() {
	submit := func(nim string) int {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", map[string]string{
			"full_name":     "Dina Rahma",
			"nim":           nim,
			"study_program": "Informatics",
			"major":         "Computer Science",
			"track":         "SOFTWARE",
			"whatsapp":      "+628123456789",
		})
		return testutil.DoRequest(s.router, req).Code
	}

	for i := 0; i < 3; i++ {
		s.Equal(http.StatusCreated, submit(fmt.Sprintf("23100100%02d", i)))
	}

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", map[string]string{}))
	s.Equal(http.StatusTooManyRequests, rr.Code)
	s.NotEmpty(rr.Header().Get("Retry-After"))

	// The general API budget is far from exhausted, so reads still pass.
	quota := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/registrations/quota", nil))
	s.Equal(http.StatusOK, quota.Code)
}

func (s *RouterSuite) TestSeedRoute() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/seed", nil)
	req.Header.Set("X-Seed-Secret", "seed-secret")
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestUnknownRoute() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/nope", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusNotFound, rr.Code)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
