package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/registration-service/internal/config"
	"github.com/deppfellow/registration-service/internal/errs"
	"github.com/deppfellow/registration-service/internal/handler"
	"github.com/deppfellow/registration-service/internal/model"
	"github.com/deppfellow/registration-service/internal/repository"
	"github.com/deppfellow/registration-service/internal/repository/mocks"
	"github.com/deppfellow/registration-service/internal/router"
	"github.com/deppfellow/registration-service/internal/server"
	"github.com/deppfellow/registration-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const scenarioA = `{
	"email": "a@b.com",
	"firstName": "A",
	"lastName": "B",
	"country": "X",
	"mobileNumber": "123",
	"involvement": "volunteer",
	"specialties": ["design", "code"],
	"referral": "friend"
}`

type RouterSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	repo   *mocks.MockRegistrationRepository
	cfg    *config.Config
	router *echo.Echo
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mocks.NewMockRegistrationRepository(s.ctrl)

	s.cfg = &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			CORSAllowedOrigins: []string{"*"},
		},
		Storage:       config.StorageConfig{Backend: config.BackendPostgres},
		Observability: config.DefaultObservabilityConfig(),
	}
	s.router = s.newRouter()
}

func (s *RouterSuite) newRouter() *echo.Echo {
	logger := zerolog.Nop()
	srv := &server.Server{Config: s.cfg, Logger: &logger}

	services, err := service.NewServices(srv, &repository.Repositories{Registrations: s.repo})
	s.Require().NoError(err)

	return router.NewRouter(srv, handler.NewHandlers(srv, services))
}

func (s *RouterSuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decodeError(rec *httptest.ResponseRecorder) errs.HTTPError {
	var body errs.HTTPError
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (s *RouterSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"message":"Health is okay!"}`, rec.Body.String())
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestRegister_ScenarioA_Success() {
	s.repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, reg *model.Registration) error {
		s.Equal(model.Specialties{"design", "code"}, reg.Specialties)
		s.Equal("a@b.com", reg.Email)
		return nil
	})

	rec := s.do(http.MethodPost, "/api/register", scenarioA)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Registration successful", rec.Body.String())
}

func (s *RouterSuite) TestRegister_ScenarioB_InvalidEmail() {
	body := strings.Replace(scenarioA, `"a@b.com"`, `"not-an-email"`, 1)

	rec := s.do(http.MethodPost, "/api/register", body)

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decodeError(rec)
	s.Require().Len(resp.Errors, 1)
	s.Equal("email", resp.Errors[0].Field)
}

func (s *RouterSuite) TestRegister_ScenarioC_SpecialtiesNotArray() {
	body := strings.Replace(scenarioA, `["design", "code"]`, `"design"`, 1)

	rec := s.do(http.MethodPost, "/api/register", body)

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decodeError(rec)
	s.Require().Len(resp.Errors, 1)
	s.Equal("specialties", resp.Errors[0].Field)
}

func (s *RouterSuite) TestRegister_ScenarioD_StorageDownThenRecovers() {
	gomock.InOrder(
		s.repo.EXPECT().Save(gomock.Any(), gomock.Any()).
			Return(errs.NewStorageError(errors.New("dial tcp: connection refused"), nil)),
		s.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
	)

	rec := s.do(http.MethodPost, "/api/register", scenarioA)
	s.Equal(http.StatusInternalServerError, rec.Code)
	resp := s.decodeError(rec)
	s.Equal("Internal Server Error", resp.Message)
	s.Equal("dial tcp: connection refused", resp.Detail)

	rec = s.do(http.MethodPost, "/api/register", scenarioA)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestRegister_ProductionHidesErrorDetail() {
	s.cfg.Primary.Env = "production"
	s.router = s.newRouter()

	s.repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		Return(errs.NewStorageError(errors.New("password authentication failed"), nil))

	rec := s.do(http.MethodPost, "/api/register", scenarioA)

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "password")
}

func (s *RouterSuite) TestRegister_MalformedJSON() {
	rec := s.do(http.MethodPost, "/api/register", `{"email":`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Empty(s.decodeError(rec).Errors)
}

func (s *RouterSuite) TestRegister_WithoutContentTypeReportsFieldErrors() {
	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Len(s.decodeError(rec).Errors, 8)
}

func (s *RouterSuite) TestRegister_ArrayBody() {
	rec := s.do(http.MethodPost, "/api/register", `[1,2]`)

	s.Equal(http.StatusBadRequest, rec.Code)
	body := s.decodeError(rec)
	s.Equal("Request body must be a JSON object", body.Message)
	s.Empty(body.Errors)
}

func (s *RouterSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/api/registrations", "")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Route not found", s.decodeError(rec).Message)
}

func (s *RouterSuite) TestStatus_Healthy() {
	s.repo.EXPECT().Ping(gomock.Any()).Return(nil)

	rec := s.do(http.MethodGet, "/status", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"storage":"postgres"`)
}

func (s *RouterSuite) TestStatus_StorageDown() {
	s.repo.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	rec := s.do(http.MethodGet, "/status", "")

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Contains(rec.Body.String(), `"unhealthy"`)
}
