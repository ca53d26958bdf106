package assignment

import (
	goerrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// ErrDuplicate is returned by a Repository when an identical
// (personRef, dutyKind, type, subType) assignment already exists.
var ErrDuplicate = goerrors.New("this duty is already assigned to the person")

// IneligibleError rejects a duty assignment, naming the rule that failed:
// ineligible staff post, missing member role, or a duplicate duty.
// It is terminal for the call; retrying with the same input cannot succeed.
type IneligibleError struct {
	Reason string
}

func NewIneligibleError(reason string) error {
	return &IneligibleError{Reason: reason}
}

func (err IneligibleError) Error() string { return err.Reason }

func IsIneligible(err error) bool {
	_, ok := errors.Cause(err).(*IneligibleError)
	return ok
}

// InvalidSubTypeError rejects a subType that is not in the catalog for the
// given artifact type.
type InvalidSubTypeError struct {
	Type    string
	SubType string
}

func (err InvalidSubTypeError) Error() string {
	return fmt.Sprintf("subtype %q is not in the %s catalog", err.SubType, err.Type)
}

func IsInvalidSubType(err error) bool {
	_, ok := errors.Cause(err).(*InvalidSubTypeError)
	return ok
}
