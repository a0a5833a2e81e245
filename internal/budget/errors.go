package budget

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package wraps exactly one
// of these, callers classify with errors.Is and never parse messages.
var (
	// ErrValidation is malformed input. Never retried.
	ErrValidation = errors.New("invalid budget item")

	// ErrNotFound is returned when an item does not exist for the
	// owner. Cross-owner access is indistinguishable from absence.
	ErrNotFound = errors.New("there is no budget item matching your query")

	// ErrStorage is returned when the storage backend is unavailable
	// or timed out. Retryable with backoff.
	ErrStorage = errors.New("the storage backend did not respond, please try again later")

	// ErrInternal signals an invariant violation, e.g. a summary
	// recompute failing after the item write succeeded.
	ErrInternal = errors.New("an error occurred on the server during your request")
)

var (
	ErrNameRequired          = fmt.Errorf("%w: the name field must not be empty", ErrValidation)
	ErrScopeRequired         = fmt.Errorf("%w: the scope field must be set", ErrValidation)
	ErrCadenceRequired       = fmt.Errorf("%w: the cadence field must be set", ErrValidation)
	ErrCategoryRequired      = fmt.Errorf("%w: the category field must be set", ErrValidation)
	ErrAmountRequired        = fmt.Errorf("%w: the amount field must be set", ErrValidation)
	ErrAmountNegative        = fmt.Errorf("%w: the amount must not be negative", ErrValidation)
	ErrScopePermanentOneTime = fmt.Errorf("%w: a one-time item cannot have a permanent scope", ErrValidation)
)
