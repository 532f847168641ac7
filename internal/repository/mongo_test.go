package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/registration-service/internal/errs"
	"github.com/deppfellow/registration-service/internal/model"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassifyMongoError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "duplicate key",
			err:      mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}},
			wantCode: "USER_ALREADY_EXISTS",
		},
		{
			name:     "document validation",
			err:      mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}}},
			wantCode: "USER_INVALID",
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantCode: "USER_TIMEOUT",
		},
		{
			name:     "network",
			err:      mongo.CommandError{Code: 6, Message: "connection reset", Labels: []string{"NetworkError"}},
			wantCode: "USER_UNAVAILABLE",
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			wantCode: "USER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyMongoError(pkgerrors.Wrap(tt.err, "insert registration"))

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Contains(t, httpErr.Detail, "insert registration")
		})
	}
}

func TestIsNamespaceExists(t *testing.T) {
	assert.True(t, isNamespaceExists(mongo.CommandError{Code: 48, Name: "NamespaceExists"}))
	assert.True(t, isNamespaceExists(pkgerrors.Wrap(mongo.CommandError{Code: 48}, "create")))
	assert.False(t, isNamespaceExists(mongo.CommandError{Code: 13, Name: "Unauthorized"}))
	assert.False(t, isNamespaceExists(errors.New("boom")))
}

func TestNewRegistrationDocument(t *testing.T) {
	city := "Springfield"
	reg := &model.Registration{
		Email:       "a@b.com",
		FirstName:   "A",
		City:        &city,
		Specialties: nil,
	}

	doc := newRegistrationDocument(reg)

	assert.NotNil(t, doc.Specialties, "specialties must be stored as an array, never null")
	assert.Empty(t, doc.Specialties)
	assert.Equal(t, &city, doc.City)
	assert.Nil(t, doc.Province)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "province")
	assert.NotContains(t, decoded, "_id")
	assert.NotContains(t, decoded, "createdAt")
	assert.Equal(t, "Springfield", decoded["city"])
	specialties, ok := decoded["specialties"].(bson.A)
	require.True(t, ok, "specialties decoded as %T", decoded["specialties"])
	assert.Empty(t, specialties)
}

func TestRegistrationSchema_RequiresCoreFields(t *testing.T) {
	schema := registrationSchema()["$jsonSchema"].(bson.M)

	assert.ElementsMatch(t, bson.A{
		"email", "firstName", "lastName", "country", "mobileNumber",
		"involvement", "specialties", "referral",
	}, schema["required"])
}
