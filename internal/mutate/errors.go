package mutate

import (
	"errors"
	"fmt"
)

// Op identifies which mutation an error belongs to.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ErrUnknownCategory rejects a draft whose category id is not in the last
// successfully fetched category set.
var ErrUnknownCategory = errors.New("category not in fetched category set")

// ErrNotEditing rejects an update when no product is in edit mode.
var ErrNotEditing = errors.New("no product in edit mode")

// ValidationError reports a draft rejected before any network call.
type ValidationError struct {
	Op     Op
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Op, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// MutationError reports a create/update/delete that failed at the server or
// on the wire. The draft being mutated is left untouched so the operator can
// retry or cancel.
type MutationError struct {
	Op  Op
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
