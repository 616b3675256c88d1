package handoff

import "sync"

// Slot is the short-lived local handoff between a buy-now click and the
// checkout flow: a single key-value write that is consumed by the first read.
type Slot struct {
	mu        sync.Mutex
	listingID string
	set       bool
}

func NewSlot() *Slot {
	return &Slot{}
}

// Put parks a listing id, replacing any unconsumed one.
func (s *Slot) Put(listingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listingID = listingID
	s.set = true
}

// Take consumes the parked listing id. The second Take after a Put reports
// no value.
func (s *Slot) Take() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", false
	}
	id := s.listingID
	s.listingID = ""
	s.set = false
	return id, true
}
