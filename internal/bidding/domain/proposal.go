package domain

// BidProposal is the ephemeral payload sent to the bid-proposal interface,
// one per submit action. It is constructed on submit, sent once and discarded
// on response, never retried automatically. The server remains the final
// arbiter of the amount; the client-side check is advisory only.
type BidProposal struct {
	ListingID  string `json:"listing_id"`
	AuctionRef string `json:"auction_ref"`
	Amount     int64  `json:"amount"`
}

// NewBidProposal creates a new BidProposal instance. AuctionRef is opaque and
// passed through unmodified.
func NewBidProposal(listingID, auctionRef string, amount int64) *BidProposal {
	return &BidProposal{
		ListingID:  listingID,
		AuctionRef: auctionRef,
		Amount:     amount,
	}
}
