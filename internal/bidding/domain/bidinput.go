package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// BidInput keeps the free-text bid amount normalized and carries the standing
// validation error shown next to the input. The empty string is a valid
// "unset" state that falls back to the current leading bid as the implied
// minimum.
type BidInput struct {
	value int64
	set   bool
	err   error
}

// Normalize applies a raw text edit. A single leading/trailing blank is
// stripped; anything containing a non-digit after that is rejected with no
// state change. Digits coerce to int64, which drops leading zeros.
func (b *BidInput) Normalize(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		b.value = 0
		b.set = false
		b.err = nil
		return nil
	}
	if !digitsOnly.MatchString(s) {
		return ErrMalformedAmount
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ErrMalformedAmount
	}
	b.value = n
	b.set = true
	return nil
}

// Bump applies the quick-increment: (current value or currentBid) + step.
// The result strictly exceeds currentBid by construction, so any standing
// error is cleared.
func (b *BidInput) Bump(currentBid, step int64) {
	base := currentBid
	if b.set {
		base = b.value
	}
	b.value = base + step
	b.set = true
	b.err = nil
}

// Amount returns the effective amount to validate: the normalized value, or
// currentBid when the input is unset.
func (b *BidInput) Amount(currentBid int64) int64 {
	if b.set {
		return b.value
	}
	return currentBid
}

// Validate records and returns the increment-rule outcome for the effective
// amount against the current leading bid.
func (b *BidInput) Validate(currentBid int64) error {
	b.err = ValidateAmount(b.Amount(currentBid), currentBid)
	return b.err
}

// Err returns the standing validation error, if any. The submit affordance is
// disabled while this is non-nil.
func (b *BidInput) Err() error {
	return b.err
}

// Clear resets the input to the unset state, used after an accepted bid.
func (b *BidInput) Clear() {
	*b = BidInput{}
}

// ValidateAmount enforces the monotonic increment rule: a proposal must be
// strictly greater than the current leading bid. No upper bound is enforced
// client side. The message carries the numeric floor so the user knows the
// minimum acceptable bid.
func ValidateAmount(amount, currentBid int64) error {
	if amount <= currentBid {
		return fmt.Errorf("%w: bid must be greater than %d", ErrBidTooLow, currentBid)
	}
	return nil
}
