package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/rest-api-modernized/repositories"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// wrapError annotates err with the failed operation and tags integrity
// violations with repositories.ErrConflict
func wrapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case foreignKeyViolation, uniqueViolation:
			return fmt.Errorf("failed to %s: %w: %w", op, repositories.ErrConflict, err)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// IsIntegrityViolation reports whether err came from a unique or foreign-key constraint
func IsIntegrityViolation(err error) bool {
	return errors.Is(err, repositories.ErrConflict)
}
