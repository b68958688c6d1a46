package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ozdeals/dealpress/app/cfg"
	"github.com/ozdeals/dealpress/app/config"
	"github.com/ozdeals/dealpress/app/deal"
	"github.com/ozdeals/dealpress/app/ledger"
	"github.com/ozdeals/dealpress/app/post"
	"github.com/ozdeals/dealpress/app/sources"
)

// DealPublisher renders and delivers one deal.
type DealPublisher interface {
	Publish(ctx context.Context, d deal.Deal, rankTag string) post.Delivery
}

// Archiver records successfully published deals. Optional; archiving
// failures never stop the loop.
type Archiver interface {
	Record(d deal.Deal, via string, postedAt time.Time) error
}

// Pipeline is one end-to-end run: fetch, filter, cascade, publish, persist.
// Strictly sequential; it owns its ledger value for the whole run.
type Pipeline struct {
	sources   []sources.Source
	feed      AlternateFeed
	static    []config.StaticEntry
	publisher DealPublisher
	archive   Archiver
	cfg       *cfg.Cfg

	sleep func(context.Context, time.Duration) error
}

// New assembles a pipeline. archive may be nil.
func New(src []sources.Source, feed AlternateFeed, static []config.StaticEntry,
	publisher DealPublisher, archive Archiver, c *cfg.Cfg) *Pipeline {
	return &Pipeline{
		sources:   src,
		feed:      feed,
		static:    static,
		publisher: publisher,
		archive:   archive,
		cfg:       c,
		sleep:     pacedSleep,
	}
}

// Run executes one full pipeline pass. Only a ledger save failure is
// returned as an error: losing the ledger would reintroduce duplicate
// posting on the next run, so it must surface loudly.
func (p *Pipeline) Run(ctx context.Context) error {
	led := ledger.Load(p.cfg.StatePath)
	led.Prune(p.cfg.TTLDays)
	slog.Info("Ledger loaded", "entries", led.Len(), "ttl_days", p.cfg.TTLDays)

	pool := p.gather(ctx, led)
	slog.Info("Candidate pool built", "size", len(pool))

	weights := deal.Weights{
		Discount: p.cfg.WeightDiscount,
		Price:    p.cfg.WeightPrice,
		Ceiling:  p.cfg.PriceCeiling,
	}
	cascade := NewCascade(p.feed, p.static, led, sources.Order, weights, p.cfg)
	selected := cascade.Run(ctx, pool)
	slog.Info("Selection complete", "selected", len(selected), "cap", p.cfg.MaxTotal)

	posted := p.publish(ctx, selected, led)

	if err := led.Save(p.cfg.StatePath); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	slog.Info("Run complete", "posted", posted, "cap", p.cfg.MaxTotal)
	return nil
}

// gather queries every source in order, one at a time. A failing source is
// logged and contributes nothing; it never affects the others. Candidates
// must carry a title and URL and be absent from the ledger to enter the
// pool.
func (p *Pipeline) gather(ctx context.Context, led *ledger.Ledger) []deal.Deal {
	var pool []deal.Deal

	for _, src := range p.sources {
		if src.Fetch == nil {
			continue
		}

		candidates, err := src.Fetch(ctx, p.cfg.FetchLimit)
		if err != nil {
			slog.Warn("Source fetch failed", "source", src.Tag, "error", err)
			continue
		}

		kept := 0
		for _, cand := range candidates {
			d := deal.FromCandidate(cand)
			d.StoreTag = src.Tag
			d.Hashtag = src.Hashtag
			if d.Store == "" {
				d.Store = src.Name
			}

			if !d.Complete() || led.Contains(d) {
				continue
			}
			pool = append(pool, d)
			kept++
		}

		slog.Info("Source fetched", "source", src.Tag, "candidates", len(candidates), "kept", kept)
	}

	return pool
}

// publish walks the selection plan in order: rank, deliver, remember, pace.
// A failed delivery leaves the item out of the ledger so it stays eligible
// next run; the loop always continues to the remaining items.
func (p *Pipeline) publish(ctx context.Context, selected []deal.Deal, led *ledger.Ledger) int {
	topSlots := min(4, p.cfg.MaxTotal)

	posted := 0
	for _, d := range selected {
		rankTag := post.TagStandard
		if posted < topSlots {
			rankTag = post.TagTop
		}

		result := p.publisher.Publish(ctx, d, rankTag)
		if !result.Delivered {
			slog.Error("Delivery failed, item stays eligible",
				"store", d.StoreTag, "title", d.Title, "error", result.Err)
			continue
		}

		led.Remember(d)
		posted++

		if p.archive != nil {
			if err := p.archive.Record(d, string(result.Via), time.Now()); err != nil {
				slog.Warn("Failed to archive deal", "title", d.Title, "error", err)
			}
		}

		if err := p.sleep(ctx, p.cfg.PostInterval); err != nil {
			slog.Warn("Run interrupted during pacing", "error", err)
			break
		}
	}

	return posted
}

func pacedSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
