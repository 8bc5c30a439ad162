package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/urlhandler"
)

// ListingScope decides which links on the listing are connector detail pages
type ListingScope struct {
	base          *url.URL
	listingURL    string
	detailPrefix  string
	detailPattern *regexp.Regexp
}

// NewListingScope compiles the detail pattern of dirCfg
func NewListingScope(dirCfg config.DirectoryConfig) (*ListingScope, error) {
	base, err := url.Parse(dirCfg.BaseURL)
	if err != nil || !base.IsAbs() {
		return nil, common.NewValidationError("base_url", dirCfg.BaseURL, "base URL must be absolute")
	}
	pattern, err := dirCfg.CompileDetailPattern()
	if err != nil {
		return nil, common.WrapError(err, "failed to compile detail pattern")
	}
	return &ListingScope{
		base:          base,
		listingURL:    dirCfg.ListingURL(),
		detailPrefix:  strings.TrimRight(dirCfg.ListingPath, "/") + "/",
		detailPattern: pattern,
	}, nil
}

// ListingURL returns the absolute listing URL
func (ls *ListingScope) ListingURL() string {
	return ls.listingURL
}

// DetailURL resolves href and reports whether it names a detail page.
// The listing itself never qualifies.
func (ls *ListingScope) DetailURL(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || !ls.detailPattern.MatchString(href) {
		return "", false
	}
	resolved, err := urlhandler.ResolveURL(href, ls.base)
	if err != nil || ls.IsListing(resolved) {
		return "", false
	}
	return resolved, true
}

// IsDetailLocation reports whether a location reached by navigation looks
// like a detail page. It is looser than DetailURL because click-through
// navigation may land on ids the pattern was not written for.
func (ls *ListingScope) IsDetailLocation(location string) bool {
	if location == "" || ls.IsListing(location) {
		return false
	}
	return strings.Contains(location, ls.detailPrefix)
}

// IsListing reports whether location is the listing page itself
func (ls *ListingScope) IsListing(location string) bool {
	trim := func(s string) string {
		s, _, _ = strings.Cut(s, "?")
		s, _, _ = strings.Cut(s, "#")
		return strings.TrimRight(s, "/")
	}
	return trim(location) == trim(ls.listingURL)
}
