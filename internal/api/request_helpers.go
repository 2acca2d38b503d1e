package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

// requireUserID returns the authenticated user or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, errUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// optionalUUIDQuery parses the named query parameter. An absent parameter
// yields nil.
func optionalUUIDQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be a UUID", domain.ErrInvalidID)
	}
	return &id, nil
}

// optionalIntQuery parses the named query parameter. An absent parameter
// yields nil.
func optionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer", domain.ErrInvalidFormat)
	}
	return &n, nil
}

// decodeAndValidate reads a JSON body into v and runs its struct tags.
// Failures are returned ready for HandleAPIError.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) error {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		return domain.NewValidationError("body", "must be a single JSON object", err)
	}
	return shared.ValidateRequest(v)
}
