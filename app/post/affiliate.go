package post

import (
	"net/url"

	"github.com/ozdeals/dealpress/app/deal"
)

// Resolver turns a deal's outbound link into a monetizable one. Amazon gets
// the partner tag as a query parameter; stores with a registered deeplink
// prefix are rewritten through it; everything else passes through with
// tracking parameters stripped.
type Resolver struct {
	amazonTag string
	deeplinks map[string]string // store tag -> prefix ending in "url="
}

// NewResolver creates a resolver from the configured affiliate tables.
func NewResolver(amazonTag string, deeplinks map[string]string) *Resolver {
	return &Resolver{amazonTag: amazonTag, deeplinks: deeplinks}
}

// Resolve returns the outbound link for a deal from the given store.
func (r *Resolver) Resolve(storeTag, target string) string {
	clean := deal.StripQuery(target)
	if clean == "" {
		return target
	}

	if storeTag == "AMAZONAU" {
		return r.amazonLink(clean)
	}

	base, ok := r.deeplinks[storeTag]
	if !ok || base == "" {
		return clean
	}
	if resolved := deal.SafeURL(base + url.QueryEscape(clean)); resolved != "" {
		return resolved
	}
	return clean
}

func (r *Resolver) amazonLink(clean string) string {
	if r.amazonTag == "" {
		return clean
	}
	parsed, err := url.Parse(clean)
	if err != nil {
		return clean
	}
	q := parsed.Query()
	q.Set("tag", r.amazonTag)
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
