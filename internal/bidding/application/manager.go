package application

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ViewManager keeps at most one mounted AuctionView per listing and hands the
// shared instance to HTTP handlers and websocket subscribers. Views are
// mounted only for engagement (a subscriber or an action path), plain reads
// are served statelessly. Release is wired to the hub's empty-group callback
// so idle views get torn down, and views whose listings closed are swept on
// the next access.
type ViewManager struct {
	deps ViewDeps

	mu    sync.Mutex
	views map[string]*AuctionView
}

func NewViewManager(deps ViewDeps) *ViewManager {
	return &ViewManager{
		deps:  deps,
		views: make(map[string]*AuctionView),
	}
}

// View returns the mounted view for a listing, mounting one on first use.
func (m *ViewManager) View(ctx context.Context, listingID string) (*AuctionView, error) {
	m.mu.Lock()
	m.sweepClosedLocked()
	if v, ok := m.views[listingID]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	// mount outside the lock, it hits the catalog service
	v := NewAuctionView(listingID, m.deps)
	if err := v.Mount(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.views[listingID]; ok {
		// lost the race, keep the first mount
		go v.Unmount()
		return existing, nil
	}
	m.views[listingID] = v
	return v, nil
}

// Release unmounts and forgets the view for a listing.
func (m *ViewManager) Release(listingID string) {
	m.mu.Lock()
	v, ok := m.views[listingID]
	delete(m.views, listingID)
	m.mu.Unlock()
	if ok {
		v.Unmount()
		log.Info("Auction view released", zap.String("listingID", listingID))
	}
}

// sweepClosedLocked unmounts views whose listings already closed, so the map
// never accumulates dead views with no subscribers left to empty their group.
func (m *ViewManager) sweepClosedLocked() {
	now := m.deps.Clock.Now()
	for id, v := range m.views {
		if v.Closed(now) {
			delete(m.views, id)
			v.Unmount()
			log.Info("Closed auction view swept", zap.String("listingID", id))
		}
	}
}

// ListingState implements BiddingService. A listing nobody is engaged with is
// snapshotted straight from the catalog, a plain read never mounts a view.
func (m *ViewManager) ListingState(ctx context.Context, listingID string) (*ListingStateDTO, error) {
	m.mu.Lock()
	m.sweepClosedLocked()
	v, ok := m.views[listingID]
	m.mu.Unlock()
	if ok {
		return v.State(), nil
	}

	listing, err := m.deps.Catalog.FetchListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return snapshotListing(listing, m.deps.Clock.Now()), nil
}

// PlaceBid implements BiddingService.
func (m *ViewManager) PlaceBid(ctx context.Context, listingID, token, returnTo, rawAmount string) (ActionResult, error) {
	v, err := m.View(ctx, listingID)
	if err != nil {
		return ActionResult{}, err
	}
	return v.PlaceBid(ctx, token, returnTo, rawAmount), nil
}

// BuyNow implements BiddingService.
func (m *ViewManager) BuyNow(ctx context.Context, listingID, token, returnTo string) (ActionResult, error) {
	v, err := m.View(ctx, listingID)
	if err != nil {
		return ActionResult{}, err
	}
	return v.BuyNow(ctx, token, returnTo), nil
}
