package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique constraint hits.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation
// on the named constraint. Concurrent inserts can pass the pre-check and
// still hit the index, so callers fold this into the same validation
// error as the pre-check.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || strings.Contains(pqErr.Constraint, constraint)
}
