package validation_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/registration-service/internal/errs"
	"github.com/deppfellow/registration-service/internal/model"
	"github.com/deppfellow/registration-service/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{
	"email": "a@b.com",
	"firstName": "A",
	"lastName": "B",
	"country": "X",
	"mobileNumber": "123",
	"involvement": "volunteer",
	"specialties": ["design", "code"],
	"referral": "friend"
}`

func bind(t *testing.T, body string) (*model.RegisterRequest, error) {
	t.Helper()
	return bindWithContentType(t, body, echo.MIMEApplicationJSON)
}

func bindWithContentType(t *testing.T, body, contentType string) (*model.RegisterRequest, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	payload := &model.RegisterRequest{}
	return payload, validation.BindAndValidate(c, payload)
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	fields := make(map[string]string, len(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		_, dup := fields[fe.Field]
		assert.False(t, dup, "field %s reported twice", fe.Field)
		fields[fe.Field] = fe.Message
	}
	return fields
}

func TestBindAndValidate_Valid(t *testing.T) {
	payload, err := bind(t, validBody)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", payload.Email)
	assert.JSONEq(t, `["design","code"]`, string(payload.Specialties))
}

func TestBindAndValidate_InvalidEmailOnly(t *testing.T) {
	body := strings.Replace(validBody, `"a@b.com"`, `"not-an-email"`, 1)

	_, err := bind(t, body)
	fields := fieldErrors(t, err)

	assert.Equal(t, map[string]string{"email": "must be a valid email address"}, fields)
}

func TestBindAndValidate_SpecialtiesString(t *testing.T) {
	body := strings.Replace(validBody, `["design", "code"]`, `"design"`, 1)

	_, err := bind(t, body)
	fields := fieldErrors(t, err)

	assert.Equal(t, map[string]string{"specialties": "must be an array of strings"}, fields)
}

func TestBindAndValidate_EmptyBodyReportsAllRequired(t *testing.T) {
	_, err := bind(t, `{}`)
	fields := fieldErrors(t, err)

	for _, name := range []string{
		"email", "firstName", "lastName", "country", "mobileNumber",
		"involvement", "specialties", "referral",
	} {
		assert.Contains(t, fields, name)
	}
	assert.Equal(t, "is required", fields["firstName"])
	assert.NotContains(t, fields, "province")
	assert.NotContains(t, fields, "city")
	assert.NotContains(t, fields, "postcode")
}

func TestBindAndValidate_TypeMismatchIsFieldErrorAndOthersStillChecked(t *testing.T) {
	body := `{
		"email": "a@b.com",
		"firstName": 42,
		"lastName": "B",
		"country": "X",
		"mobileNumber": "123",
		"involvement": "volunteer",
		"specialties": ["design"]
	}`

	_, err := bind(t, body)
	fields := fieldErrors(t, err)

	assert.Equal(t, map[string]string{
		"firstName": "must be a string",
		"referral":  "is required",
	}, fields)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	_, err := bind(t, `{"email": `)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidate_NonObjectBody(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"text"`, `42`} {
		_, err := bind(t, body)

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr), "body %s", body)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, validation.NonObjectBodyMessage, httpErr.Message)
		assert.NotContains(t, httpErr.Message, "model.")
		assert.Empty(t, httpErr.Errors)
	}
}

func TestBindAndValidate_IgnoresContentTypeHeader(t *testing.T) {
	for _, contentType := range []string{"", echo.MIMETextPlain} {
		payload, err := bindWithContentType(t, validBody, contentType)
		require.NoError(t, err, "content type %q", contentType)
		assert.Equal(t, "a@b.com", payload.Email)
	}
}

func TestBindAndValidate_EmptyBodyWithoutContentType(t *testing.T) {
	_, err := bindWithContentType(t, "", "")
	fields := fieldErrors(t, err)

	assert.Len(t, fields, 8)
	assert.Equal(t, "is required", fields["email"])
}
