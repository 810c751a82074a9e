package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
)

type errorResponse struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps the engine's error taxonomy onto HTTP statuses. The
// engine itself never produces user-facing text formats.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, statusForKind(ve.Kind), errorResponse{Kind: string(ve.Kind), Message: ve.Message})
		return
	}
	if domain.IsIntegrityError(err) {
		logger.Error("integrity violation surfaced to API", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Kind: "INTEGRITY_VIOLATION", Message: err.Error()})
		return
	}

	logger.Error("unexpected failure", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrRecordNotFound:
		return http.StatusNotFound
	case domain.ErrNotAuthorized:
		return http.StatusForbidden
	case domain.ErrDuplicateBorrow, domain.ErrBorrowLimitReached, domain.ErrNoCopiesAvailable, domain.ErrCategoryInUse, domain.ErrFineNotPayable:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError(domain.ErrInvalidInput, "invalid %s %q", name, raw)
	}
	return int32(id), nil
}

func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError(domain.ErrInvalidInput, "malformed request body")
	}
	return nil
}

func mustActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, domain.NewValidationError(domain.ErrNotAuthorized, "no authenticated actor"))
	}
	return actor, ok
}

type pagedResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
	Page  int32 `json:"page"`
}
