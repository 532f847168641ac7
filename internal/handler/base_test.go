package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/registration-service/internal/errs"
	"github.com/deppfellow/registration-service/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *echoRequest) Validate() error {
	return validation.Struct(r)
}

func newEchoRequest() *echoRequest { return &echoRequest{} }

func serve(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h(e.NewContext(req, rec)); err != nil {
		e.DefaultHTTPErrorHandler(err, e.NewContext(req, rec))
	}
	return rec
}

func TestHandle_WritesJSON(t *testing.T) {
	h := Handle(Handler{}, func(c echo.Context, req *echoRequest) (map[string]string, error) {
		return map[string]string{"hello": req.Name}, nil
	}, http.StatusCreated, newEchoRequest)

	rec := serve(t, h, `{"name":"ann"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"hello":"ann"}`, rec.Body.String())
}

func TestHandleText_WritesPlainText(t *testing.T) {
	h := HandleText(Handler{}, func(c echo.Context, req *echoRequest) (string, error) {
		return "hi " + req.Name, nil
	}, http.StatusOK, newEchoRequest)

	rec := serve(t, h, `{"name":"ann"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi ann", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain)
}

func TestHandle_ValidationErrorSkipsHandler(t *testing.T) {
	called := false
	h := Handle(Handler{}, func(c echo.Context, req *echoRequest) (string, error) {
		called = true
		return "", nil
	}, http.StatusOK, newEchoRequest)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := h(e.NewContext(req, httptest.NewRecorder()))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.False(t, called)
}

func TestHandle_FreshPayloadPerRequest(t *testing.T) {
	h := Handle(Handler{}, func(c echo.Context, req *echoRequest) (string, error) {
		return req.Name, nil
	}, http.StatusOK, newEchoRequest)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := serve(t, h, `{"name":"`+name+`"}`)
			assert.JSONEq(t, `"`+name+`"`, rec.Body.String())
		}()
	}
	wg.Wait()
}
