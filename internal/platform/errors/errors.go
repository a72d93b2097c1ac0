package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyDone         = errors.New("already done")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidState        = errors.New("invalid state")
	ErrPersistenceDegraded = errors.New("persistence degraded")
)

// IsDegraded reports whether err only signals that the in-memory result could
// not be made durable yet.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrPersistenceDegraded)
}

// Warning splits a degraded-persistence error off as a warning message. Any
// other error is returned unchanged.
func Warning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if IsDegraded(err) {
		return err.Error(), nil
	}
	return "", err
}
