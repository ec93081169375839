package chat

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength bounds a message body in bytes.
const MaxMessageLength = 4096

var (
	ErrUnauthenticated   = errors.New("connection is not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrRateLimited       = errors.New("too many calls")
)

// Wire codes carried by Error events and HTTP error bodies.
const (
	CodeUnauthenticated   = "unauthenticated"
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeInvalidStatus     = "invalid_status"
	CodeInvalidTransition = "invalid_transition"
	CodeBadRequest        = "bad_request"
	CodeConflict          = "conflict"
	CodeStoreUnavailable  = "store_unavailable"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"
)

// Code maps an error onto its wire code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrInvalidStatus):
		return CodeInvalidStatus
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidRole):
		return CodeBadRequest
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

// ValidateMessage checks a message body.
func ValidateMessage(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: message cannot be empty", ErrInvalidInput)
	}
	if len(body) > MaxMessageLength {
		return fmt.Errorf("%w: message exceeds maximum length", ErrInvalidInput)
	}
	if !utf8.ValidString(body) {
		return fmt.Errorf("%w: message contains invalid characters", ErrInvalidInput)
	}
	return nil
}

// FromCode rebuilds an error from its wire code so that errors.Is keeps
// working across a serialized boundary. Unknown codes map to a plain error.
func FromCode(code, msg string) error {
	sentinel, ok := map[string]error{
		CodeUnauthenticated:   ErrUnauthenticated,
		CodeNotFound:          ErrNotFound,
		CodeForbidden:         ErrForbidden,
		CodeInvalidStatus:     ErrInvalidStatus,
		CodeInvalidTransition: ErrInvalidTransition,
		CodeBadRequest:        ErrInvalidInput,
		CodeConflict:          ErrConflict,
		CodeStoreUnavailable:  ErrStoreUnavailable,
		CodeRateLimited:       ErrRateLimited,
	}[code]
	if !ok {
		return errors.New(msg)
	}
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
