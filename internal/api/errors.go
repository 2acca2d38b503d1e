package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/scry-study/internal/api/middleware"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/store"
)

// Stable error codes returned in the "code" field of error bodies.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = middleware.CodeUnauthorized
	CodeQuotaExceeded      = "AI_LIMIT_EXCEEDED"
	CodeFlashcardNotFound  = "FLASHCARD_NOT_FOUND"
	CodeDeckNotFound       = "DECK_NOT_FOUND"
	CodeGenerationFailed   = "GENERATION_FAILED"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeInternal           = "INTERNAL_ERROR"
)

// RetryAfterSeconds is advertised on persistence failures.
const RetryAfterSeconds = 5

var errUnauthorized = errors.New("unauthorized")

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, errUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusForbidden
	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return http.StatusNotFound
	case isValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToCode maps internal errors to the stable code clients branch on.
func MapErrorToCode(err error) string {
	switch MapErrorToStatusCode(err) {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeQuotaExceeded
	case http.StatusNotFound:
		if errors.Is(err, store.ErrDeckNotFound) {
			return CodeDeckNotFound
		}
		return CodeFlashcardNotFound
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusBadGateway:
		return CodeGenerationFailed
	case http.StatusServiceUnavailable:
		return CodePersistenceFailure
	default:
		return CodeInternal
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var ve *domain.ValidationError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.As(err, &fieldErrs):
		return SanitizeValidationError(fieldErrs)
	case errors.As(err, &ve):
		return fmt.Sprintf("Invalid %s: %s", ve.Field, ve.Message)
	}

	switch MapErrorToCode(err) {
	case CodeUnauthorized:
		return "Invalid token"
	case CodeQuotaExceeded:
		return "Monthly AI generation limit reached"
	case CodeDeckNotFound:
		return "Deck not found"
	case CodeFlashcardNotFound:
		return "Flashcard not found"
	case CodeValidation:
		return "Invalid request"
	case CodeGenerationFailed:
		if errors.Is(err, generation.ErrContentBlocked) {
			return "The text was rejected by the content filter"
		}
		return "Failed to generate flashcards"
	case CodePersistenceFailure:
		return "Storage is temporarily unavailable, please retry"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError describes the first failed field of a validator
// error without exposing struct names.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag(), fe.Param()))
}

func validationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "must be a UUID"
	case "min", "gte":
		return "must be at least " + param
	case "max", "lte":
		return "must be at most " + param
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error reply for err: status, code, safe message,
// and details where the client can act on them.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	code := MapErrorToCode(err)

	var opts []shared.ResponseOption
	var ve *domain.ValidationError
	var fieldErrs validator.ValidationErrors
	var qe *domain.QuotaExceededError
	switch {
	case errors.As(err, &qe):
		opts = append(opts, shared.WithElevatedLogLevel(), shared.WithDetails(map[string]any{
			"current_count": qe.CurrentCount,
			"limit":         qe.Limit,
			"reset_date":    qe.ResetDate.UTC().Format(time.RFC3339),
		}))
	case errors.As(err, &ve):
		opts = append(opts, shared.WithDetails(map[string]any{"field": ve.Field}))
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		opts = append(opts, shared.WithDetails(map[string]any{"field": fieldErrs[0].Field()}))
	case status == http.StatusServiceUnavailable:
		opts = append(opts, shared.WithHeader("Retry-After", strconv.Itoa(RetryAfterSeconds)))
	case status == http.StatusUnauthorized:
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, code, GetSafeErrorMessage(err), err, opts...)
}

func isValidation(err error) bool {
	var fieldErrs validator.ValidationErrors
	return domain.IsValidationError(err) ||
		errors.As(err, &fieldErrs) ||
		errors.Is(err, shared.ErrEmptyBody)
}
