package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/security"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef")

	var gotActor domain.Actor
	handler := AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		assert.True(t, ok)
		gotActor = actor
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Valid token reaches the handler", func(t *testing.T) {
		token, err := tokens.GenerateToken(7, domain.ActorRoleLibrarian, time.Hour)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int32(7), gotActor.UserID)
		assert.Equal(t, domain.ActorRoleLibrarian, gotActor.Role)
	})

	t.Run("Missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Generates an id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("Preserves a supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Not found", domain.NewValidationError(domain.ErrRecordNotFound, "loan 5 not found"), http.StatusNotFound},
		{"Not authorized", domain.NewValidationError(domain.ErrNotAuthorized, "nope"), http.StatusForbidden},
		{"Duplicate borrow", domain.NewValidationError(domain.ErrDuplicateBorrow, "dup"), http.StatusConflict},
		{"Borrow limit", domain.NewValidationError(domain.ErrBorrowLimitReached, "limit"), http.StatusConflict},
		{"No copies", domain.NewValidationError(domain.ErrNoCopiesAvailable, "none"), http.StatusConflict},
		{"Fine not payable", domain.NewValidationError(domain.ErrFineNotPayable, "paid"), http.StatusConflict},
		{"Invalid input", domain.NewValidationError(domain.ErrInvalidInput, "bad"), http.StatusBadRequest},
		{"Integrity violation", domain.NewIntegrityError("copies exceed total"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
