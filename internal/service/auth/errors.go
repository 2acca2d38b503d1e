package auth

import "errors"

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and unexpected claims.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the nbf or iat claim lies in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWeakSecret is returned for signing secrets shorter than MinSecretLength.
	ErrWeakSecret = errors.New("jwt secret is too short")
)
