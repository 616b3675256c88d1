package application

import (
	"context"
	"errors"
	"strings"

	"github.com/heavymart/bidgate/internal/bidding/domain"
	"go.uber.org/zap"
)

// ActionResult is what either action path hands back to the HTTP layer:
// success flag, user notice, optional redirect (with delay for the rejected
// verification case) and the refreshed view state after an accepted bid.
type ActionResult struct {
	OK              bool             `json:"ok"`
	Outcome         string           `json:"outcome"`
	Notice          string           `json:"notice,omitempty"`
	Redirect        string           `json:"redirect,omitempty"`
	RedirectDelayMS int64            `json:"redirect_delay_ms,omitempty"`
	State           *ListingStateDTO `json:"state,omitempty"`
}

const (
	OutcomeBidPlaced    = "bid_placed"
	OutcomeBuyNow       = "buy_now"
	OutcomeInFlight     = "in_flight"
	OutcomeInvalidBid   = "invalid_bid"
	OutcomeSubmitFailed = "submit_failed"
	OutcomeAuthExpired  = "auth_expired"
)

// authFailurePhrases are the known markers of a session that expired between
// gate-pass and submit. Matching any of them turns a submit failure into a
// sign-in redirect instead of a generic failure notice.
var authFailurePhrases = []string{
	"unauthorized",
	"not logged in",
	"session expired",
	"token expired",
	"invalid token",
	"login required",
}

func isAuthFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range authFailurePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func resultFromGate(r domain.GateResult) ActionResult {
	return ActionResult{
		Outcome:         string(r.Outcome),
		Notice:          r.Notice,
		Redirect:        r.Redirect,
		RedirectDelayMS: r.RedirectDelay.Milliseconds(),
	}
}

// PlaceBid runs the place-bid path: in-flight guard, local validation,
// eligibility gate, remote proposal, authoritative refresh. The proposal is
// sent at most once per invocation and never retried automatically; the
// in-flight flag is cleared on every exit path.
func (v *AuctionView) PlaceBid(ctx context.Context, token, returnTo, rawAmount string) ActionResult {
	v.mu.Lock()
	if v.bidInFlight {
		v.mu.Unlock()
		log.Debug("PlaceBid ignored, submission already in flight", zap.String("listingID", v.listingID))
		return ActionResult{Outcome: OutcomeInFlight}
	}
	v.bidInFlight = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.bidInFlight = false
		v.mu.Unlock()
	}()

	// 1. normalize and validate locally, validation errors never reach the server
	v.mu.Lock()
	err := v.input.Normalize(rawAmount)
	if err == nil {
		err = v.input.Validate(v.listing.CurrentBid)
	}
	proposal := domain.NewBidProposal(v.listing.ID, v.listing.AuctionRef, v.input.Amount(v.listing.CurrentBid))
	v.mu.Unlock()
	if err != nil {
		return ActionResult{Outcome: OutcomeInvalidBid, Notice: err.Error()}
	}

	// 2. eligibility gate, the proposal never fires before a pass
	if gate := v.deps.Gate.Check(ctx, token, returnTo); !gate.Passed() {
		log.Info("PlaceBid blocked by eligibility gate",
			zap.String("listingID", v.listingID),
			zap.String("outcome", string(gate.Outcome)),
		)
		return resultFromGate(gate)
	}

	// 3. propose to the external bid interface, the server is the final arbiter
	if err := v.deps.Bids.SubmitBid(ctx, token, proposal); err != nil {
		if isAuthFailure(err) {
			log.Warn("PlaceBid: session expired mid-flow",
				zap.String("listingID", v.listingID),
				zap.Error(err),
			)
			return ActionResult{
				Outcome:  OutcomeAuthExpired,
				Notice:   "Your session has expired. Please sign in again.",
				Redirect: domain.WithReturnURL(v.deps.LoginRoute, returnTo),
			}
		}
		log.Warn("PlaceBid: proposal rejected",
			zap.String("listingID", v.listingID),
			zap.Int64("amount", proposal.Amount),
			zap.Error(err),
		)
		var subErr *domain.SubmissionError
		if errors.As(err, &subErr) && subErr.Message != "" {
			return ActionResult{Outcome: OutcomeSubmitFailed, Notice: subErr.Message}
		}
		return ActionResult{Outcome: OutcomeSubmitFailed, Notice: "Could not place your bid. Please try again."}
	}

	// 4. accepted: re-fetch authoritative state and clear the input. The view
	// never bumps currentBid itself, the refresh is the only source of truth.
	if err := v.Refresh(ctx); err != nil {
		log.Warn("PlaceBid: post-bid refresh failed", zap.String("listingID", v.listingID), zap.Error(err))
	}
	v.mu.Lock()
	v.input.Clear()
	state := v.stateLocked()
	v.mu.Unlock()

	log.Info("Bid placed",
		zap.String("listingID", v.listingID),
		zap.String("auctionRef", proposal.AuctionRef),
		zap.Int64("amount", proposal.Amount),
	)
	return ActionResult{
		OK:      true,
		Outcome: OutcomeBidPlaced,
		Notice:  "Your bid has been placed.",
		State:   state,
	}
}

// QuickBump applies the configured quick-increment to the bid input and
// returns the resulting amount. Always valid by construction, so any
// standing validation error is cleared.
func (v *AuctionView) QuickBump() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input.Bump(v.listing.CurrentBid, v.deps.QuickIncrement)
	return v.input.Amount(v.listing.CurrentBid)
}
