package application

import (
	"context"

	"github.com/heavymart/bidgate/internal/bidding/domain"
	"go.uber.org/zap"
)

// BuyNow runs the fixed-price path: in-flight guard, eligibility gate, then
// the listing id is parked in the one-shot handoff slot and the caller is
// pointed at the deterministic checkout route. No remote call is made, the
// checkout flow consumes the handoff. Independent of the place-bid flag, a
// pending bid never blocks a buy-now click.
func (v *AuctionView) BuyNow(ctx context.Context, token, returnTo string) ActionResult {
	v.mu.Lock()
	if v.buyNowInFlight {
		v.mu.Unlock()
		log.Debug("BuyNow ignored, already in flight", zap.String("listingID", v.listingID))
		return ActionResult{Outcome: OutcomeInFlight}
	}
	v.buyNowInFlight = true
	listing := v.listing
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.buyNowInFlight = false
		v.mu.Unlock()
	}()

	if gate := v.deps.Gate.Check(ctx, token, returnTo); !gate.Passed() {
		log.Info("BuyNow blocked by eligibility gate",
			zap.String("listingID", v.listingID),
			zap.String("outcome", string(gate.Outcome)),
		)
		return resultFromGate(gate)
	}

	v.deps.Handoff.Put(listing.ID)
	route := domain.CheckoutRoute(listing)

	log.Info("Buy-now handoff",
		zap.String("listingID", listing.ID),
		zap.String("auctionRef", listing.AuctionRef),
		zap.String("checkoutRoute", route),
	)
	return ActionResult{
		OK:       true,
		Outcome:  OutcomeBuyNow,
		Redirect: route,
	}
}
