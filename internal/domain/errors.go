package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured is returned when the auction window was never set.
	ErrNotConfigured = errors.New("auction window not configured")

	// ErrEmailTaken is returned on registration with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a digest
	// mismatch; callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRoleMismatch means the credentials were correct but the login
	// was requested for a different role.
	ErrRoleMismatch = errors.New("credentials valid but role does not match")
)

// ValidationError reports bad user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type RejectionReason string

const (
	RejectAuctionNotOpen RejectionReason = "auction_not_open"
	RejectInvalidAmount  RejectionReason = "invalid_amount"
	RejectBidTooLow      RejectionReason = "bid_too_low"
)

// BidRejection is returned when a bid fails a precondition. CurrentPrice
// is filled for the too-low case so the caller can redisplay it.
type BidRejection struct {
	Reason       RejectionReason
	State        AuctionState
	CurrentPrice int64
}

func (e *BidRejection) Error() string {
	switch e.Reason {
	case RejectAuctionNotOpen:
		return fmt.Sprintf("bidding is closed: auction is %s", e.State)
	case RejectInvalidAmount:
		return "bid amount must be a positive integer"
	case RejectBidTooLow:
		return fmt.Sprintf("bid must exceed the current price of %d", e.CurrentPrice)
	default:
		return string(e.Reason)
	}
}

// DependencyError wraps a failure in an external collaborator (store,
// cache, object storage, image fetch).
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
