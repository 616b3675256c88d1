package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/heavymart/bidgate/internal/bidding/application"
	"github.com/heavymart/bidgate/internal/bidding/domain"
	"github.com/heavymart/bidgate/internal/bidding/infra/handoff"
	"github.com/jonboulle/clockwork"
)

type fakeSessions struct {
	mu     sync.Mutex
	status domain.SessionStatus
	err    error
	calls  int
}

func (f *fakeSessions) CheckSession(ctx context.Context, token string) (domain.SessionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.status, f.err
}

type fakeIdentity struct {
	mu     sync.Mutex
	status domain.IdentityStatus
	err    error
	calls  int
}

func (f *fakeIdentity) CheckStatus(ctx context.Context, token string) (domain.IdentityStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.status, f.err
}

func (f *fakeIdentity) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBids struct {
	mu        sync.Mutex
	err       error
	proposals []*domain.BidProposal
	// block, when non-nil, holds SubmitBid open until closed
	block chan struct{}
	// onAccept runs before a successful return, tests use it to move the
	// authoritative listing forward
	onAccept func(p *domain.BidProposal)
}

func (f *fakeBids) SubmitBid(ctx context.Context, token string, p *domain.BidProposal) error {
	f.mu.Lock()
	f.proposals = append(f.proposals, p)
	block := f.block
	err := f.err
	onAccept := f.onAccept
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return err
	}
	if onAccept != nil {
		onAccept(p)
	}
	return nil
}

func (f *fakeBids) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.proposals)
}

func (f *fakeBids) lastProposal() *domain.BidProposal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.proposals) == 0 {
		return nil
	}
	return f.proposals[len(f.proposals)-1]
}

type fakeCatalog struct {
	mu      sync.Mutex
	listing domain.AuctionListing
	err     error
	fetches int
}

func (f *fakeCatalog) FetchListing(ctx context.Context, listingID string) (*domain.AuctionListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	l := f.listing
	return &l, nil
}

func (f *fakeCatalog) setCurrentBid(amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listing.CurrentBid = amount
}

func openListing() domain.AuctionListing {
	return domain.AuctionListing{
		ID:          "lst-1",
		AuctionRef:  "A-9921",
		Category:    "Earthmoving Equipment",
		Make:        "John Deere",
		Model:       "310 SL",
		CurrentBid:  1000,
		BuyNowPrice: 50000,
		CloseAt:     "2031-05-01 12:00:00",
		Status:      domain.StatusOpen,
	}
}

func verifiedIdentity() domain.IdentityStatus {
	return domain.IdentityStatus{IsUpload: true, IsReject: false, IsVerify: true}
}

func loggedIn() domain.SessionStatus {
	return domain.SessionStatus{Success: true, IsLoggedIn: true}
}

type fakePublisher struct {
	mu     sync.Mutex
	ticks  []domain.Remaining
	states []*application.ListingStateDTO
}

func (p *fakePublisher) PublishTick(listingID string, r domain.Remaining) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticks = append(p.ticks, r)
}

func (p *fakePublisher) PublishState(state *application.ListingStateDTO) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, state)
}

func (p *fakePublisher) lastTick() (domain.Remaining, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ticks) == 0 {
		return domain.Remaining{}, false
	}
	return p.ticks[len(p.ticks)-1], true
}

func (p *fakePublisher) stateCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}

type fixture struct {
	sessions *fakeSessions
	identity *fakeIdentity
	bids     *fakeBids
	catalog  *fakeCatalog
	handoff  *handoff.Slot
	pub      *fakePublisher
	clock    *clockwork.FakeClock
	view     *application.AuctionView
}

// newFixture mounts a view over an open listing with a fully eligible caller.
// Tests flip the fakes to exercise the failure paths.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sessions: &fakeSessions{status: loggedIn()},
		identity: &fakeIdentity{status: verifiedIdentity()},
		bids:     &fakeBids{},
		catalog:  &fakeCatalog{listing: openListing()},
		handoff:  handoff.NewSlot(),
		pub:      &fakePublisher{},
		clock:    clockwork.NewFakeClockAt(time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)),
	}

	gate := application.NewEligibilityGate(f.sessions, f.identity,
		"/login", "/account/verification", 2*time.Second)

	f.view = application.NewAuctionView("lst-1", application.ViewDeps{
		Gate:              gate,
		Catalog:           f.catalog,
		Bids:              f.bids,
		Handoff:           f.handoff,
		Publisher:         f.pub,
		Clock:             f.clock,
		LoginRoute:        "/login",
		QuickIncrement:    100,
		CountdownInterval: time.Second,
	})
	if err := f.view.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(f.view.Unmount)
	return f
}
