package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/heavymart/bidgate/internal/bidding/application"
	"github.com/heavymart/bidgate/internal/bidding/domain"
	"github.com/stretchr/testify/require"
)

func TestPlaceBidSuccess(t *testing.T) {
	f := newFixture(t)
	f.bids.onAccept = func(p *domain.BidProposal) {
		// the server accepted, the authoritative listing moves forward
		f.catalog.setCurrentBid(p.Amount)
	}

	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")

	require.True(t, res.OK)
	require.Equal(t, application.OutcomeBidPlaced, res.Outcome)
	require.NotEmpty(t, res.Notice)

	proposal := f.bids.lastProposal()
	require.Equal(t, "lst-1", proposal.ListingID)
	require.Equal(t, "A-9921", proposal.AuctionRef)
	require.Equal(t, int64(1200), proposal.Amount)

	// currentBid updated via the refresh, never mutated locally
	require.Equal(t, int64(1200), res.State.CurrentBid)

	// input cleared: an empty follow-up falls back to the new floor and fails
	res = f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "")
	require.Equal(t, application.OutcomeInvalidBid, res.Outcome)
	require.Contains(t, res.Notice, "1200")
}

func TestPlaceBidValidationNeverReachesServer(t *testing.T) {
	f := newFixture(t)

	for _, raw := range []string{"1000", "999", "12a0", "1,200"} {
		res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", raw)
		require.Equal(t, application.OutcomeInvalidBid, res.Outcome, "input %q", raw)
		require.False(t, res.OK)
	}
	require.Zero(t, f.bids.callCount())
}

func TestPlaceBidValidationErrorCarriesFloor(t *testing.T) {
	f := newFixture(t)

	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "800")
	require.Contains(t, res.Notice, "1000")
}

func TestPlaceBidGateBlocksSubmission(t *testing.T) {
	f := newFixture(t)
	f.sessions.status = domain.SessionStatus{Success: true, IsLoggedIn: false}

	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")

	require.Equal(t, string(domain.GateNeedsLogin), res.Outcome)
	require.NotEmpty(t, res.Redirect)
	require.Zero(t, f.bids.callCount())
}

func TestPlaceBidPendingVerificationBlocksSilently(t *testing.T) {
	f := newFixture(t)
	f.identity.status = domain.IdentityStatus{IsUpload: true, IsVerify: false}

	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")

	require.Equal(t, string(domain.GateVerificationPending), res.Outcome)
	require.NotEmpty(t, res.Notice)
	// no navigation, no network submission
	require.Empty(t, res.Redirect)
	require.Zero(t, f.bids.callCount())
}

func TestPlaceBidAuthExpiredMidFlow(t *testing.T) {
	f := newFixture(t)
	f.bids.err = errors.New("unauthorized: token expired")

	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")

	require.Equal(t, application.OutcomeAuthExpired, res.Outcome)
	require.Equal(t, "/login?returnUrl=%2Flistings%2Flst-1", res.Redirect)
}

func TestPlaceBidSurfacesServerMessageVerbatim(t *testing.T) {
	f := newFixture(t)
	f.bids.err = &domain.SubmissionError{Message: "Your bid was outbid moments ago"}

	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")

	require.Equal(t, application.OutcomeSubmitFailed, res.Outcome)
	require.Equal(t, "Your bid was outbid moments ago", res.Notice)
}

func TestPlaceBidGenericFailureNotice(t *testing.T) {
	f := newFixture(t)
	f.bids.err = errors.New("boom")

	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")

	require.Equal(t, application.OutcomeSubmitFailed, res.Outcome)
	require.Equal(t, "Could not place your bid. Please try again.", res.Notice)
	// never retried automatically
	require.Equal(t, 1, f.bids.callCount())
}

func TestPlaceBidIdempotentGuard(t *testing.T) {
	f := newFixture(t)
	f.bids.block = make(chan struct{})

	done := make(chan application.ActionResult, 1)
	go func() {
		done <- f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")
	}()

	// wait for the first click to reach the remote call
	require.Eventually(t, func() bool { return f.bids.callCount() == 1 },
		time.Second, time.Millisecond)

	// the second rapid click is a no-op while the first is in flight
	second := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1300")
	require.Equal(t, application.OutcomeInFlight, second.Outcome)

	close(f.bids.block)
	first := <-done
	require.True(t, first.OK)
	require.Equal(t, 1, f.bids.callCount())
}

func TestPlaceBidClearsInFlightAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.bids.err = errors.New("boom")

	_ = f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")

	// flag cleared on the error path, a re-click submits again
	f.bids.mu.Lock()
	f.bids.err = nil
	f.bids.mu.Unlock()
	res := f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")
	require.True(t, res.OK)
	require.Equal(t, 2, f.bids.callCount())
}

func TestQuickBump(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, int64(1100), f.view.QuickBump())
	require.Equal(t, int64(1200), f.view.QuickBump())
}

func TestPlaceBidDoesNotBlockBuyNow(t *testing.T) {
	f := newFixture(t)
	f.bids.block = make(chan struct{})

	done := make(chan application.ActionResult, 1)
	go func() {
		done <- f.view.PlaceBid(context.Background(), "tok", "/listings/lst-1", "1200")
	}()
	require.Eventually(t, func() bool { return f.bids.callCount() == 1 },
		time.Second, time.Millisecond)

	// the paths track in-flight state independently
	res := f.view.BuyNow(context.Background(), "tok", "/listings/lst-1")
	require.True(t, res.OK)

	close(f.bids.block)
	<-done
}
