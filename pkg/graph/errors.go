package graph

import (
	"errors"
	"fmt"
)

// RejectReason is the machine-readable code carried by a rejected command.
type RejectReason string

const (
	ReasonIncompatibleTypes RejectReason = "incompatible_types"
	ReasonNodeNotFound      RejectReason = "node_not_found"
	ReasonUnknownOperator   RejectReason = "unknown_operator"
)

// Rejection is a non-fatal command refusal. The store is left in its prior
// state; callers surface the reason to the user instead of failing.
type Rejection struct {
	Reason RejectReason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return string(r.Reason)
	}

	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

// IsRejection reports whether an error is a command rejection.
func IsRejection(err error) bool {
	var rejection *Rejection

	return errors.As(err, &rejection)
}

// ReasonOf extracts the rejection reason from an error, or empty if the
// error is not a rejection.
func ReasonOf(err error) RejectReason {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection.Reason
	}

	return ""
}
