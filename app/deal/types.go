package deal

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// TitleMaxLen caps deal titles for presentation and fingerprinting.
const TitleMaxLen = 140

// Candidate is a raw, not-yet-vetted record produced by a source fetcher.
// Prices are free-form text exactly as scraped; normalization happens in
// FromCandidate.
type Candidate struct {
	Store       string // display name, may be empty (filled from the source)
	Tag         string // source bucket tag, may be empty (filled from the source)
	ID          string // explicit item id (e.g. ASIN) when the source has one
	Title       string
	URL         string
	NowText     string
	WasText     string
	DiscountPct *int // source-claimed discount, used only when not derivable
	ImageURL    string
	ExtraLine   string
}

// Deal is a normalized candidate ready for selection and publishing.
type Deal struct {
	StoreTag    string
	Store       string
	Hashtag     string
	ID          string
	Title       string
	URL         string
	ImageURL    string
	Now         *decimal.Decimal
	Was         *decimal.Decimal
	DiscountPct *int
	ExtraLine   string
}

// FromCandidate normalizes a raw candidate: collapses whitespace, caps the
// title, strips tracking query parameters from the URL, repairs the price
// pair and computes the discount. A discount the source claimed is kept only
// when the repaired pair could not produce one.
func FromCandidate(c Candidate) Deal {
	now, was := RepairPair(ExtractPrice(c.NowText), ExtractPrice(c.WasText))

	pct := Discount(now, was)
	if pct == nil {
		pct = c.DiscountPct
	}

	title := NormalizeSpace(c.Title)
	if len(title) > TitleMaxLen {
		title = title[:TitleMaxLen]
	}

	return Deal{
		StoreTag:    c.Tag,
		Store:       c.Store,
		ID:          c.ID,
		Title:       title,
		URL:         StripQuery(c.URL),
		ImageURL:    c.ImageURL,
		Now:         now,
		Was:         was,
		DiscountPct: pct,
		ExtraLine:   c.ExtraLine,
	}
}

// Identity returns the dedup identity anchor: the explicit item id when the
// source supplied one, otherwise the query-stripped URL.
func (d Deal) Identity() string {
	if d.ID != "" {
		return d.ID
	}
	return StripQuery(d.URL)
}

// NowText renders the current price for display, e.g. "$19.99".
func (d Deal) NowText() string {
	return priceText(d.Now)
}

// WasText renders the original price for display, empty when unknown.
func (d Deal) WasText() string {
	return priceText(d.Was)
}

func priceText(p *decimal.Decimal) string {
	if p == nil {
		return ""
	}
	return "$" + p.StringFixed(2)
}

// Complete reports whether the candidate carries the minimum fields required
// to ever reach the ledger or the selector.
func (d Deal) Complete() bool {
	return d.Title != "" && d.URL != ""
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses runs of whitespace into single spaces and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// StripQuery removes the query string and fragment from a URL so links
// differing only by tracking parameters collapse to one identity. Unparsable
// input is returned unchanged.
func StripQuery(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

// SafeURL returns the input when it is a valid absolute URL, else "".
func SafeURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || !parsed.IsAbs() {
		return ""
	}
	return parsed.String()
}
