package seoblog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestApiErrorConstructors(t *testing.T) {
	err := ErrNotFound.New("Category")
	assert.Equal(t, "Category not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "%s not found", ErrNotFound.Message)

	custom := ErrBadRequest.WithMessage("Email is taken")
	assert.Equal(t, "Email is taken", custom.Message)
	assert.Equal(t, "BAD_REQUEST: Email is taken", custom.Error())

	assert.Equal(t, http.StatusBadRequest, ApiError{}.status())
}

func TestTranslateError(t *testing.T) {
	dupKey := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: seoblog.tags index: slug_1 dup key: { slug: "go" }`,
	}}}

	tests := []struct {
		name     string
		err      error
		resource string
		expected error
	}{
		{name: "nil", err: nil, expected: nil},
		{name: "api error passes through", err: ErrForbidden.New("Access denied!"), expected: ErrForbidden.New("Access denied!")},
		{name: "wrapped api error", err: fmt.Errorf("update: %w", ErrUnauthorized.New("Expired link. Try again")), expected: ErrUnauthorized.New("Expired link. Try again")},
		{name: "missing document", err: mongo.ErrNoDocuments, resource: "Tag", expected: ErrNotFound.New("Tag")},
		{name: "missing document without resource", err: mongo.ErrNoDocuments, expected: ErrNotFound.New("Resource")},
		{name: "duplicate key", err: dupKey, expected: ErrAlreadyExists.New("Slug")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TranslateError(tt.err, tt.resource))
		})
	}

	plain := errors.New("socket closed")
	assert.Same(t, plain, TranslateError(plain, "Blog"))
}

func TestDuplicateField(t *testing.T) {
	assert.Equal(t, "Email", duplicateField(`E11000 duplicate key error collection: seoblog.users index: email_1 dup key: { email: "a@b.c" }`))
	assert.Equal(t, "Username", duplicateField(`E11000 duplicate key error index: seoblog.users.$username_1 dup key`))
	assert.Equal(t, "", duplicateField("something else"))
}

func TestSendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		body   ErrorResponse
	}{
		{ErrValidation.New("Name is required"), http.StatusUnprocessableEntity, ErrorResponse{"VALIDATION_FAILED", "Name is required"}},
		{mongo.ErrNoDocuments, http.StatusNotFound, ErrorResponse{"NOT_FOUND", "Resource not found"}},
		{errors.New("boom"), http.StatusInternalServerError, ErrorResponse{"INTERNAL_ERROR", "Something went wrong"}},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		SendError(c, tt.err)

		assert.Equal(t, tt.status, w.Code)
		assert.True(t, c.IsAborted())
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.body, body)
	}
}
