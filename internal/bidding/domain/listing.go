package domain

import (
	"strings"
	"time"
)

// ListingStatus represents the lifecycle state of an auction listing. The
// transition out of Open happens server side on close, this client never
// writes it.
type ListingStatus string

const (
	StatusOpen   ListingStatus = "open"
	StatusSold   ListingStatus = "sold"
	StatusClosed ListingStatus = "closed"
)

// closeTimeLayout is the fixed textual format the catalog service uses for
// close timestamps, date and time separated by a single space.
const closeTimeLayout = "2006-01-02 15:04:05"

// AuctionListing is the authoritative listing state as read from the catalog
// service. CurrentBid is monotonically non-decreasing while the listing is
// open; BuyNowPrice is fixed at creation and independent of CurrentBid.
type AuctionListing struct {
	ID          string        `json:"id"`
	AuctionRef  string        `json:"auction_ref"`
	Category    string        `json:"category"`
	Make        string        `json:"make"`
	Model       string        `json:"model"`
	CurrentBid  int64         `json:"current_bid"`
	BuyNowPrice int64         `json:"buy_now_price"`
	CloseAt     string        `json:"close_at"`
	Status      ListingStatus `json:"status"`
}

// ParseCloseTime parses the catalog's textual close timestamp. The space
// separator is treated as equivalent to the standard date-time delimiter, so
// both forms are accepted. Timestamps are interpreted in UTC.
func ParseCloseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.Replace(s, "T", " ", 1))
	return time.ParseInLocation(closeTimeLayout, s, time.UTC)
}

// CloseTime returns the parsed close timestamp. An unparseable value degrades
// to the zero time, which every consumer treats as already closed.
func (l *AuctionListing) CloseTime() time.Time {
	t, err := ParseCloseTime(l.CloseAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
