package sources

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/ozdeals/dealpress/app/deal"
)

// FeedURL is the community deals RSS feed. Stable, key-free, and also used
// by the cascade as the alternate candidate source when the store scrapers
// run dry.
const FeedURL = "https://www.ozbargain.com.au/deals/feed"

func feedFetcher(c *Client) FetchFunc {
	return func(ctx context.Context, limit int) ([]deal.Candidate, error) {
		return FetchFeed(ctx, c, limit)
	}
}

// FetchFeed retrieves and parses the community deals feed.
func FetchFeed(ctx context.Context, c *Client, limit int) ([]deal.Candidate, error) {
	data, err := c.get(ctx, FeedURL)
	if err != nil {
		return nil, err
	}
	return ParseFeed(data, limit)
}

// ParseFeed turns raw RSS bytes into candidates. Price pairs and discount
// claims are lifted from the item text when present; most feed items carry
// neither, which is fine — they publish as text posts.
func ParseFeed(data []byte, limit int) ([]deal.Candidate, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse deals feed: %w", err)
	}

	candidates := make([]deal.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Title == "" || item.Link == "" {
			continue
		}

		title := deal.NormalizeSpace(item.Title)
		link := deal.StripQuery(item.Link)
		nowText, wasText := deal.ExtractPriceTexts(title + " " + item.Description)

		candidates = append(candidates, deal.Candidate{
			ID:          link,
			Title:       title,
			URL:         link,
			NowText:     nowText,
			WasText:     wasText,
			DiscountPct: deal.DiscountFromTitle(title),
		})

		if len(candidates) >= limit {
			break
		}
	}

	return candidates, nil
}
