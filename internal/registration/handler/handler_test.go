package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"pccreg/internal/registration/handler"
	"pccreg/internal/registration/models"
	"pccreg/internal/registration/service"
	"pccreg/internal/registration/store"
	"pccreg/internal/siteconfig"
	"pccreg/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router     chi.Router
	store      *store.InMemoryStore
	configs    *siteconfig.InMemoryStore
	regService *service.Service
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.configs = siteconfig.NewInMemoryStore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	configService := siteconfig.NewService(s.configs, siteconfig.WithLogger(logger))

	var err error
	s.regService, err = service.New(s.store, configService, service.WithLogger(logger))
	s.Require().NoError(err)

	h := handler.New(s.regService, logger)
	s.router = chi.NewRouter()
	s.router.Route("/api", func(r chi.Router) {
		h.Register(r)
		h.RegisterSubmit(r)
		r.Route("/admin", func(ar chi.Router) {
			h.RegisterAdmin(ar)
		})
	})
}

func validSubmitBody() map[string]string {
	return map[string]string{
		"full_name":     "Dina Rahma",
		"nim":           "2310010001",
		"study_program": "Informatics",
		"major":         "Computer Science",
		"track":         "SOFTWARE",
		"whatsapp":      "+628123456789",
	}
}

func (s *HandlerSuite) TestSubmitCreated() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusCreated, rr.Code)
	reg := testutil.UnmarshalResponse[models.Registration](s.T(), rr)
	s.NotEmpty(reg.ID)
	s.Equal("2310010001", reg.NIM)
	s.Equal(models.StatusPending, reg.Status)
}

func (s *HandlerSuite) TestSubmitMalformedBody() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", nil)
	req.Body = http.NoBody
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rr.Code)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("bad_request", body["error"])
}

func (s *HandlerSuite) TestSubmitMissingField() {
	payload := validSubmitBody()
	payload["nim"] = ""
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", payload)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestSubmitUnknownTrack() {
	payload := validSubmitBody()
	payload["track"] = "HARDWARE"
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", payload)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rr.Code)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Contains(body["error_description"], "HARDWARE")
}

func (s *HandlerSuite) TestSubmitDuplicateNIM() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)

	req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	rr = testutil.DoRequest(s.router, req)

	s.Equal(http.StatusConflict, rr.Code)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("conflict", body["error"])
}

func (s *HandlerSuite) TestSubmitQuotaFull() {
	_, err := s.configs.SetQuotas(context.Background(), 1, 1, 1)
	s.Require().NoError(err)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)

	payload := validSubmitBody()
	payload["nim"] = "2310010002"
	req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", payload)
	rr = testutil.DoRequest(s.router, req)

	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("quota_exceeded", body["error"])
}

func (s *HandlerSuite) TestQuotaEndpoint() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/registrations/quota", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	info := testutil.UnmarshalResponse[models.QuotaInfo](s.T(), rr)
	s.Equal(siteconfig.DefaultCeiling, info.Software.Max)
	s.Equal(0, info.Software.Current)
	s.False(info.Software.Full)
}

func (s *HandlerSuite) TestAdminList() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	s.Require().Equal(http.StatusCreated, testutil.DoRequest(s.router, req).Code)

	req = testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/admin/registrations", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	regs := testutil.UnmarshalResponse[[]models.Registration](s.T(), rr)
	s.Require().Len(*regs, 1)
	s.Equal("2310010001", (*regs)[0].NIM)
}

func (s *HandlerSuite) TestUpdateStatus() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)
	created := testutil.UnmarshalResponse[models.Registration](s.T(), rr)

	req = testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/api/admin/registrations/"+created.ID+"/status",
		map[string]string{"status": "VERIFY"})
	rr = testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	updated := testutil.UnmarshalResponse[models.Registration](s.T(), rr)
	s.Equal(models.StatusVerify, updated.Status)
}

func (s *HandlerSuite) TestUpdateStatusUnknownTarget() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)
	created := testutil.UnmarshalResponse[models.Registration](s.T(), rr)

	req = testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/api/admin/registrations/"+created.ID+"/status",
		map[string]string{"status": "APPROVED"})
	rr = testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestUpdateStatusNotFound() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/api/admin/registrations/00000000-0000-0000-0000-000000000000/status",
		map[string]string{"status": "VERIFY"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestDelete() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)
	created := testutil.UnmarshalResponse[models.Registration](s.T(), rr)

	req = testutil.NewJSONRequest(s.T(), http.MethodDelete, "/api/admin/registrations/"+created.ID, nil)
	rr = testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNoContent, rr.Code)

	req = testutil.NewJSONRequest(s.T(), http.MethodDelete, "/api/admin/registrations/"+created.ID, nil)
	rr = testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestExportCSV() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/registrations", validSubmitBody())
	s.Require().Equal(http.StatusCreated, testutil.DoRequest(s.router, req).Code)

	req = testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/admin/registrations/export", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Header().Get("Content-Type"), "text/csv")
	s.Contains(rr.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	s.Require().Len(lines, 2)
	s.Equal("full_name,nim,study_program,major,track,whatsapp,status,created_at", lines[0])
	s.Contains(lines[1], "2310010001")
	s.Contains(lines[1], "SOFTWARE")
}
