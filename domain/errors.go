package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrCacheMiss means the key is absent from the cache or no longer usable
	ErrCacheMiss = errors.New("cache miss")

	ErrNovelNotFound    = fmt.Errorf("novel: %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user: %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category: %w", ErrNotFound)

	// ErrInvalidQuery is the parent of every *InvalidQueryError
	ErrInvalidQuery = errors.New("invalid query")

	// ErrConflictRetryable is returned by the ledger storage when a concurrent
	// writer won the race for the same vote row. The vote usecase retries it and
	// never hands it to callers.
	ErrConflictRetryable = errors.New("concurrent update conflict")
	// ErrTransient is what callers see once conflict retries are exhausted
	ErrTransient = errors.New("temporarily unable to complete the operation, retry later")
	// ErrStorageUnavailable wraps any storage failure that aborted the operation
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrTimeout is returned when the request deadline expired mid operation
	ErrTimeout = errors.New("operation timed out")
	// ErrTooManyRequests is returned when a user toggles faster than allowed
	ErrTooManyRequests = errors.New("too many vote toggles, slow down")
)

// InvalidQueryError reports which request parameter was rejected.
type InvalidQueryError struct {
	Param  string
	Reason string
}

func NewInvalidQueryError(param, reason string) *InvalidQueryError {
	return &InvalidQueryError{Param: param, Reason: reason}
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error {
	return ErrInvalidQuery
}

// IsRetryable tells the caller whether repeating the whole operation may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrTooManyRequests) ||
		errors.Is(err, ErrConflictRetryable)
}
