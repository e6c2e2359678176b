package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondNotFound(rec, ErrCodeQuizNotFound, "quiz not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.Equal(t, ErrCodeQuizNotFound, resp.Error)
	assert.Equal(t, "quiz not found", resp.Message)
}

func TestRespondValidationErrors(t *testing.T) {
	type request struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=8"`
	}
	err := validator.New().Struct(request{Email: "nope", Password: "short"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	RespondValidationErrors(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, ErrCodeValidationFailed, resp.Error)
	assert.Equal(t, "email", resp.Details["email"])
	assert.Equal(t, "min", resp.Details["password"])
}

func TestRespondValidationErrorsPlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondValidationErrors(rec, fmt.Errorf("bad json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, ErrCodeInvalidRequest, resp.Error)
	assert.Nil(t, resp.Details)
}
