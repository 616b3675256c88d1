package domain

import "context"

// SessionSource answers whether the caller holds a valid session. The gate
// fails open to "not logged in" on any error.
type SessionSource interface {
	CheckSession(ctx context.Context, token string) (SessionStatus, error)
}

// IdentitySource answers the caller's identity/license verification status.
// Only consulted once session validity is confirmed.
type IdentitySource interface {
	CheckStatus(ctx context.Context, token string) (IdentityStatus, error)
}

// BidService is the external bid-proposal interface. A failed proposal comes
// back as an error, a *SubmissionError when the server supplied a message.
type BidService interface {
	SubmitBid(ctx context.Context, token string, proposal *BidProposal) error
}

// Catalog reads authoritative listing state. Used on mount and for the
// post-bid refresh; this layer never mutates listing state itself.
type Catalog interface {
	FetchListing(ctx context.Context, listingID string) (*AuctionListing, error)
}

// HandoffSlot passes the listing id from a buy-now click to the checkout
// screen. A value is consumed by the first Take after a Put.
type HandoffSlot interface {
	Put(listingID string)
	Take() (string, bool)
}
