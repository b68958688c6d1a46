package pipeline

import (
	"context"
	"log/slog"

	"github.com/ozdeals/dealpress/app/cfg"
	"github.com/ozdeals/dealpress/app/config"
	"github.com/ozdeals/dealpress/app/deal"
	"github.com/ozdeals/dealpress/app/ledger"
)

// feedExtraLine marks posts sourced from the community feed, which carries
// less detail than a store page.
const feedExtraLine = "(Fallback source) Check the page for full details/coupons."

// AlternateFeed pulls candidates from the secondary aggregation source when
// the store pool runs dry.
type AlternateFeed func(ctx context.Context, limit int) ([]deal.Candidate, error)

// Cascade walks the selection tiers until the minimum daily quota is met or
// tiers are exhausted. It never errors past its boundary: a failed tier
// contributes zero candidates and the walk continues.
type Cascade struct {
	feed    AlternateFeed
	static  []config.StaticEntry
	ledger  *ledger.Ledger
	order   []string
	weights deal.Weights
	cfg     *cfg.Cfg
}

// NewCascade builds a cascade over the given ledger for one run.
func NewCascade(feed AlternateFeed, static []config.StaticEntry, led *ledger.Ledger,
	order []string, weights deal.Weights, c *cfg.Cfg) *Cascade {
	return &Cascade{
		feed:    feed,
		static:  static,
		ledger:  led,
		order:   order,
		weights: weights,
		cfg:     c,
	}
}

// Run takes the base-filtered pool and returns the final selection plan.
//
// Tier 1 selects from candidates passing the strict thresholds; tier 2
// re-selects from the whole pool (replacing, not appending). Before either,
// a pool below the minimum quota is topped up from the alternate feed
// (tier 3) and, failing that, the static placeholder entries (tier 4).
func (c *Cascade) Run(ctx context.Context, pool []deal.Deal) []deal.Deal {
	if c.cfg.FallbackMode && len(pool) < c.cfg.MinDaily {
		pool = c.injectFeed(ctx, pool)
	}
	if c.cfg.FallbackMode && len(pool) < c.cfg.MinDaily {
		pool = c.injectStatic(pool)
	}

	var strict []deal.Deal
	for _, d := range pool {
		if deal.StrictOK(d, c.cfg.StrictMinDiscount, c.cfg.StrictMinPrice) {
			strict = append(strict, d)
		}
	}

	selected := deal.Select(strict, c.order, c.cfg.MaxTotal, c.cfg.MaxPerStore, c.weights)
	if c.cfg.FallbackMode && len(selected) < c.cfg.MinDaily {
		slog.Info("Strict tier below quota, relaxing",
			"strict", len(selected), "quota", c.cfg.MinDaily, "pool", len(pool))
		selected = deal.Select(pool, c.order, c.cfg.MaxTotal, c.cfg.MaxPerStore, c.weights)
	}

	return selected
}

func (c *Cascade) injectFeed(ctx context.Context, pool []deal.Deal) []deal.Deal {
	candidates, err := c.feed(ctx, c.cfg.FeedLimit)
	if err != nil {
		slog.Warn("Alternate feed fetch failed", "error", err)
		return pool
	}

	added := 0
	for _, cand := range candidates {
		cand.ExtraLine = feedExtraLine
		d := deal.FromCandidate(cand)
		classify(&d)
		if !d.Complete() || c.ledger.Contains(d) {
			continue
		}
		pool = append(pool, d)
		added++
	}

	slog.Info("Alternate feed injected", "added", added, "pool", len(pool))
	return pool
}

func (c *Cascade) injectStatic(pool []deal.Deal) []deal.Deal {
	added := 0
	for _, entry := range c.static {
		d := deal.FromCandidate(deal.Candidate{
			Store: entry.Store,
			Title: entry.Title,
			URL:   entry.URL,
		})
		classify(&d)
		if entry.Store != "" {
			d.Store = entry.Store
		}
		if !d.Complete() || c.ledger.Contains(d) {
			continue
		}
		pool = append(pool, d)
		added++
	}

	slog.Info("Static fallback injected", "added", added, "pool", len(pool))
	return pool
}

// classify fills store metadata from the URL bucket, keeping any display
// name the candidate already carried.
func classify(d *deal.Deal) {
	info := deal.ClassifyURL(d.URL)
	d.StoreTag = info.Tag
	d.Hashtag = info.Hashtag
	if d.Store == "" {
		d.Store = info.Name
	}
}
