package service

import "errors"

// Domain errors surfaced to the HTTP layer. Handlers map these onto status
// codes and user-facing messages; anything else is treated as a storage
// fault and answered generically.
var (
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrWeakCredential     = errors.New("password does not meet the policy")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("not authenticated")

	// ErrNotFound covers both "does not exist" and "owned by someone else";
	// the two are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("record not found")

	ErrDuplicateCategory = errors.New("category name already used")
	ErrCategoryInUse     = errors.New("category still has transactions")
	ErrInvalidCategory   = errors.New("category does not exist or is not yours")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrValidation        = errors.New("invalid input")
)
