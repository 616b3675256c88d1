package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and trims the input, collapses any run of
// non-alphanumeric characters to a single hyphen and strips leading/trailing
// hyphens.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CheckoutRoute builds the deterministic buy-now checkout route from the
// listing's category/make/model segments plus the auction reference, which is
// opaque and passed through unmodified.
func CheckoutRoute(l *AuctionListing) string {
	return fmt.Sprintf("/checkout/%s/%s/%s/%s",
		Slugify(l.Category), Slugify(l.Make), Slugify(l.Model), l.AuctionRef)
}

// WithReturnURL appends a percent-encoded copy of the origin route to a
// remediation route, so the user lands back where they were gated once the
// missing step completes.
func WithReturnURL(route, returnTo string) string {
	if returnTo == "" {
		return route
	}
	return route + "?returnUrl=" + url.QueryEscape(returnTo)
}

// ReturnURLFrom reads the origin route back out of a remediation URL,
// decoding it exactly once.
func ReturnURLFrom(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("returnUrl")
}
