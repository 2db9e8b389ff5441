package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested record does not exist
	ErrNotFound = errors.New("requested record is not found")
	// ErrConflict will throw if the record being created already exists
	ErrConflict = errors.New("record already exists")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrForbidden will throw if the caller does not own the mutated record
	ErrForbidden = errors.New("caller is not allowed to perform this operation")
	// ErrInvalidState will throw if the operation is not legal for the record's
	// current status, e.g. bidding on an ended auction
	ErrInvalidState = errors.New("operation not legal for current state")
	// ErrAccountSuspended will throw if the caller's account is blocked from
	// bidding and listing
	ErrAccountSuspended = errors.New("account is suspended")
	// ErrBidTooLow will throw if a bid is below the required minimum
	ErrBidTooLow = errors.New("bid is below the required minimum")
	// ErrVersionConflict signals an optimistic lock failure; callers retry with
	// fresh state
	ErrVersionConflict = errors.New("record was modified concurrently")
)

// BidTooLowError carries the computed minimum so the caller can retry with a
// legal amount.
type BidTooLowError struct {
	RequiredMinimum float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid is below the required minimum of %.2f", e.RequiredMinimum)
}

func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}
