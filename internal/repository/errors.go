package repository

import "fmt"

// Unavailable wraps err from op so that it matches ErrStoreUnavailable
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
