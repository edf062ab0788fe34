package domain

import (
	"errors"
	"fmt"
)

var ErrTicketNotFound = errors.New("ticket not found")

// ValidationError rejects malformed input before any ticket state is touched:
// a bad plate, an unknown exemption kind, an invalid receipt.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// InvalidStateError reports an operation attempted from a status that does
// not permit it. Op is the past participle of the refused operation, so the
// message reads "ticket with status PAID cannot be paid".
type InvalidStateError struct {
	Op     string
	Status TicketStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("ticket with status %s cannot be %s", e.Status, e.Op)
}

// ToleranceExpiredError is the one failure that leaves a trace: the exit
// attempt already moved the ticket into an expired-tolerance status and
// persisted it before this error was returned. It unwraps to an
// InvalidStateError carrying the post-transition status.
type ToleranceExpiredError struct {
	Op     string
	Status TicketStatus
}

func (e *ToleranceExpiredError) Error() string {
	return fmt.Sprintf("tolerance window exceeded, ticket moved to status %s: new payment required", e.Status)
}

func (e *ToleranceExpiredError) Unwrap() error {
	return &InvalidStateError{Op: e.Op, Status: e.Status}
}

// ExternalError wraps a failure from a collaborator (store, payment gateway,
// validator) so callers can tell infrastructure trouble from domain
// violations.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}
