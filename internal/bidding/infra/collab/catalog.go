package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/heavymart/bidgate/internal/bidding/domain"
)

// CatalogClient talks to the marketplace core service: it reads authoritative
// listing state and proposes bids. It implements both domain.Catalog and
// domain.BidService.
type CatalogClient struct {
	api *apiClient
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{api: newAPIClient(baseURL, timeout)}
}

func (c *CatalogClient) FetchListing(ctx context.Context, listingID string) (*domain.AuctionListing, error) {
	var listing domain.AuctionListing
	err := c.api.getJSON(ctx, "/api/v1/listings/"+listingID, "", &listing)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.status == http.StatusNotFound {
			return nil, fmt.Errorf("catalog client: %s: %w", listingID, domain.ErrListingNotFound)
		}
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	return &listing, nil
}

// submitBidResponse is the bid-proposal interface's answer. A rejected
// proposal carries the server's reason in message.
type submitBidResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitBid proposes a bid. The server is the final arbiter, a race lost to
// another bidder comes back as a *domain.SubmissionError carrying the
// server's message so it can be shown verbatim.
func (c *CatalogClient) SubmitBid(ctx context.Context, token string, proposal *domain.BidProposal) error {
	var resp submitBidResponse
	err := c.api.postJSON(ctx, "/api/v1/bids", token, proposal, &resp)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			// prefer the server's own message when the error body carries one
			var body submitBidResponse
			if json.Unmarshal([]byte(apiErr.body), &body) == nil && body.Message != "" {
				return &domain.SubmissionError{Message: body.Message}
			}
		}
		return fmt.Errorf("catalog client: submit bid: %w", err)
	}
	if !resp.Success {
		return &domain.SubmissionError{Message: resp.Message}
	}
	return nil
}

var (
	_ domain.Catalog    = (*CatalogClient)(nil)
	_ domain.BidService = (*CatalogClient)(nil)
)
