package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"pccreg/internal/admin/handler"
	"pccreg/internal/admin/models"
	"pccreg/internal/admin/service"
	"pccreg/internal/admin/store"
	jwttoken "pccreg/internal/jwt_token"
	"pccreg/internal/platform/middleware"
	"pccreg/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router  chi.Router
	service *service.Service
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwttoken.NewJWTService("test-signing-key", "pccreg-test")

	var err error
	s.service, err = service.New(store.NewInMemory(), tokens, service.WithLogger(logger))
	s.Require().NoError(err)

	_, err = s.service.Bootstrap(context.Background(), "admin", "s3cret-pass")
	s.Require().NoError(err)

	h := handler.New(s.service, logger)
	s.router = chi.NewRouter()
	s.router.Route("/api", func(r chi.Router) {
		h.Register(r)
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.RequireAuth(tokens, logger))
			h.RegisterAdmin(ar)
		})
	})
}

func (s *HandlerSuite) TestLogin() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "s3cret-pass"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	session := testutil.UnmarshalResponse[service.Session](s.T(), rr)
	s.NotEmpty(session.Token)
	s.Equal("admin", session.Admin.Username)
	s.NotContains(rr.Body.String(), "password_hash")
}

func (s *HandlerSuite) TestLoginWrongCredentials() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "wrong"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusUnauthorized, rr.Code)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("unauthorized", body["error"])
}

func (s *HandlerSuite) TestLoginMalformedBody() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/auth/login", nil)
	req.Body = http.NoBody
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestProfileRequiresToken() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/admin/me", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *HandlerSuite) TestProfileWithToken() {
	session, err := s.service.Login(context.Background(), "admin", "s3cret-pass")
	s.Require().NoError(err)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	admin := testutil.UnmarshalResponse[models.Admin](s.T(), rr)
	s.Equal("admin", admin.Username)
}

func (s *HandlerSuite) TestProfileWithGarbageToken() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/admin/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusUnauthorized, rr.Code)
}
