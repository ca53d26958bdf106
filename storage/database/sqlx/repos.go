package sqlxrepos

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/projeval/projeval/core"
)

// uniqueViolation is the Postgres error code for unique-constraint violations.
const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
	}
	return false
}

// storageErr classifies a driver failure as transient and retryable.
func storageErr(op string, err error) error {
	return core.NewStorageError(op, err)
}
