// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestJSONErrorMapsTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"conflict", ConflictError("Username already exists"), http.StatusBadRequest, CodeConflict, "Username already exists"},
		{"unauthorized", UnauthorizedError(""), http.StatusUnauthorized, CodeUnauthorized, "authentication required"},
		{"forbidden", ForbiddenError("Admin privilege required"), http.StatusForbidden, CodeForbidden, "Admin privilege required"},
		{"not found", NotFoundError("Order not found"), http.StatusNotFound, CodeNotFound, "Order not found"},
		{"invalid state", InvalidStateError("Cart is empty"), http.StatusBadRequest, CodeInvalidState, "Cart is empty"},
		{"wrapped", fmt.Errorf("handler: %w", InvalidInputError("bad")), http.StatusBadRequest, CodeInvalidInput, "bad"},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, CodeInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	assert.ErrorIs(t, NotFoundError("x"), ErrNotFound)
	assert.ErrorIs(t, TokenRevokedError(), ErrTokenRevoked)
	assert.True(t, IsAppError(fmt.Errorf("wrap: %w", ForbiddenError(""))))
	assert.False(t, IsAppError(ErrForbidden))
}

func TestMessageShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, http.StatusCreated, "User registered successfully")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"msg":"User registered successfully"}`, rec.Body.String())
}

func TestFormatValidationError(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Quantity int    `validate:"gt=0"`
	}

	err := validator.New().Struct(payload{Email: "nope"})
	msg := FormatValidationError(err)
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "quantity must be greater than 0")

	assert.Equal(t, "invalid request", FormatValidationError(errors.New("x")))
}

func TestTranslateWriteError(t *testing.T) {
	err := TranslateWriteError(&pgconn.PgError{Code: "23505", ConstraintName: "carts_user_id_key"})

	var uv *UniqueViolation
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "carts_user_id_key", uv.Constraint)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	other := errors.New("boom")
	assert.Same(t, other, TranslateWriteError(other))
	assert.NoError(t, TranslateWriteError(nil))
}

func TestDecimalsEncodeAsNumbers(t *testing.T) {
	out, err := json.Marshal(map[string]decimal.Decimal{"total": LineTotal(decimal.RequireFromString("10.005"), 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":20.01}`, string(out))
}
