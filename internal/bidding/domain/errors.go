package domain

import "errors"

var (
	ErrBidTooLow       = errors.New("bid amount is too low")
	ErrMalformedAmount = errors.New("bid amount must contain digits only")
	ErrListingNotFound = errors.New("listing not found")
	ErrNotEligible     = errors.New("caller is not eligible to act on this listing")
)

// SubmissionError carries the server-provided message of a failed bid
// proposal so it can be surfaced verbatim to the user.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	if e.Message == "" {
		return "bid submission failed"
	}
	return e.Message
}
