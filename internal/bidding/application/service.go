package application

import "context"

// BiddingService defines the application interface of the bidding module,
// exposing the auction view operations to the transport layer.
type BiddingService interface {
	// ListingState returns the current view snapshot for a listing.
	ListingState(ctx context.Context, listingID string) (*ListingStateDTO, error)
	// PlaceBid runs the gated place-bid path with the caller's free-text amount.
	PlaceBid(ctx context.Context, listingID, token, returnTo, rawAmount string) (ActionResult, error)
	// BuyNow runs the gated fixed-price path and hands back the checkout route.
	BuyNow(ctx context.Context, listingID, token, returnTo string) (ActionResult, error)
}

var _ BiddingService = (*ViewManager)(nil)
