package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/heavymart/bidgate/internal/bidding/domain"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ListingStateDTO is the output DTO exposing view state to the HTTP/WS layer.
type ListingStateDTO struct {
	ListingID   string           `json:"listing_id"`
	AuctionRef  string           `json:"auction_ref"`
	Category    string           `json:"category"`
	Make        string           `json:"make"`
	Model       string           `json:"model"`
	CurrentBid  int64            `json:"current_bid"`
	BuyNowPrice int64            `json:"buy_now_price"`
	CloseAt     string           `json:"close_at"`
	Status      string           `json:"status"`
	Remaining   domain.Remaining `json:"remaining"`
}

// Publisher pushes view state to whoever watches the listing. Implemented by
// the websocket broadcaster; nil disables pushing.
type Publisher interface {
	PublishTick(listingID string, r domain.Remaining)
	PublishState(state *ListingStateDTO)
}

// ViewDeps bundles everything an AuctionView needs injected.
type ViewDeps struct {
	Gate      *EligibilityGate
	Catalog   domain.Catalog
	Bids      domain.BidService
	Handoff   domain.HandoffSlot
	Publisher Publisher
	Clock     clockwork.Clock

	LoginRoute        string
	QuickIncrement    int64
	CountdownInterval time.Duration
}

// AuctionView composes the countdown, bid input and action paths for one
// listing. It is the sole owner and writer of the authoritative currentBid
// and closeAt copies; everything else only reads them. The two action paths
// carry independent in-flight flags so a pending bid never blocks the
// buy-now affordance and vice versa.
type AuctionView struct {
	deps      ViewDeps
	listingID string

	mu              sync.Mutex
	listing         *domain.AuctionListing
	closeAt         time.Time
	input           domain.BidInput
	alive           bool
	bidInFlight     bool
	buyNowInFlight  bool
	countdown       *domain.Countdown
	cancelCountdown context.CancelFunc
}

func NewAuctionView(listingID string, deps ViewDeps) *AuctionView {
	return &AuctionView{
		deps:      deps,
		listingID: listingID,
	}
}

// Mount loads authoritative listing state from the catalog and starts the
// countdown. The view is unusable until Mount succeeds.
func (v *AuctionView) Mount(ctx context.Context) error {
	listing, err := v.deps.Catalog.FetchListing(ctx, v.listingID)
	if err != nil {
		return fmt.Errorf("auction view: failed to load listing %s: %w", v.listingID, err)
	}

	v.mu.Lock()
	v.alive = true
	v.applyListingLocked(listing)
	v.mu.Unlock()

	log.Info("Auction view mounted",
		zap.String("listingID", v.listingID),
		zap.String("auctionRef", listing.AuctionRef),
		zap.Int64("currentBid", listing.CurrentBid),
	)
	return nil
}

// Unmount tears the countdown down and marks the view dead so late ticks and
// late network responses become no-ops.
func (v *AuctionView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alive = false
	if v.cancelCountdown != nil {
		v.cancelCountdown()
		v.cancelCountdown = nil
	}
	v.countdown = nil
	log.Info("Auction view unmounted", zap.String("listingID", v.listingID))
}

// Refresh re-fetches the authoritative listing and publishes the new state.
// This is the only way currentBid moves; the view never mutates it locally.
func (v *AuctionView) Refresh(ctx context.Context) error {
	listing, err := v.deps.Catalog.FetchListing(ctx, v.listingID)
	if err != nil {
		return fmt.Errorf("auction view: failed to refresh listing %s: %w", v.listingID, err)
	}

	v.mu.Lock()
	if !v.alive {
		// response arrived after unmount
		v.mu.Unlock()
		return nil
	}
	v.applyListingLocked(listing)
	state := v.stateLocked()
	v.mu.Unlock()

	if v.deps.Publisher != nil {
		v.deps.Publisher.PublishState(state)
	}
	return nil
}

// State snapshots the view for the HTTP layer, with the remaining time
// computed fresh off the injected clock.
func (v *AuctionView) State() *ListingStateDTO {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *AuctionView) stateLocked() *ListingStateDTO {
	return snapshotListing(v.listing, v.deps.Clock.Now())
}

// snapshotListing projects a listing into the state DTO without going through
// a mounted view.
func snapshotListing(l *domain.AuctionListing, now time.Time) *ListingStateDTO {
	return &ListingStateDTO{
		ListingID:   l.ID,
		AuctionRef:  l.AuctionRef,
		Category:    l.Category,
		Make:        l.Make,
		Model:       l.Model,
		CurrentBid:  l.CurrentBid,
		BuyNowPrice: l.BuyNowPrice,
		CloseAt:     l.CloseAt,
		Status:      string(l.Status),
		Remaining:   domain.RemainingUntil(l.CloseTime(), now),
	}
}

// Closed reports whether the listing's close time has passed. A closed view's
// countdown has reached terminal and nothing will move its state again.
func (v *AuctionView) Closed(now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.closeAt.After(now)
}

// applyListingLocked installs a fresh authoritative listing. A changed
// closeAt rebuilds the countdown from scratch rather than resetting the old
// one, so no running tick loop can reference a stale close time.
func (v *AuctionView) applyListingLocked(l *domain.AuctionListing) {
	closeAt := l.CloseTime()
	rebuild := v.countdown == nil || !closeAt.Equal(v.closeAt)
	v.listing = l
	v.closeAt = closeAt
	if rebuild {
		v.rebuildCountdownLocked()
	}
}

func (v *AuctionView) rebuildCountdownLocked() {
	if v.cancelCountdown != nil {
		v.cancelCountdown()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancelCountdown = cancel

	cd := domain.NewCountdown(v.deps.Clock, v.closeAt, v.deps.CountdownInterval)
	v.countdown = cd
	go cd.Run(ctx)
	go v.pumpTicks(cd)
}

// pumpTicks forwards countdown samples to the publisher, dropping anything
// that arrives after an unmount or a countdown rebuild.
func (v *AuctionView) pumpTicks(cd *domain.Countdown) {
	for r := range cd.Ticks() {
		v.mu.Lock()
		live := v.alive && v.countdown == cd
		v.mu.Unlock()
		if !live {
			return
		}
		if v.deps.Publisher != nil {
			v.deps.Publisher.PublishTick(v.listingID, r)
		}
	}
}
