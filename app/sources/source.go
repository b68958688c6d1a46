package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ozdeals/dealpress/app/deal"
)

// FetchFunc retrieves raw candidates from one source. limit is a hint, not a
// guarantee. Ordinary scraping failures surface as an error the caller logs
// and treats as zero candidates.
type FetchFunc func(ctx context.Context, limit int) ([]deal.Candidate, error)

// Source is one origin bucket: its dedup/fairness tag, display name, channel
// hashtag and fetch capability.
type Source struct {
	Tag     string
	Name    string
	Hashtag string
	Fetch   FetchFunc
}

// Order is the fixed store preference ordering. Fairness seeding walks it
// front to back, so position here decides who gets a slot first on thin
// days. Stores without a built-in fetcher still appear: their deals arrive
// through the community feed and are classified by URL.
var Order = []string{
	"AMAZONAU",
	"WOOLWORTHS",
	"COLES",
	"BIGW",
	"CHEMISTWAREHOUSE",
	"JBHIFI",
	"CATCH",
	"KOGAN",
	"MYDEAL",
	"OFFICEWORKS",
	"OZBARGAIN",
}

// Client bundles what every fetcher needs for outbound requests.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// Registry returns the built-in sources in fetch order. Browser-automation
// heavy stores (Amazon, the supermarkets) are external collaborators;
// embedders append them via their own Source values.
func Registry(c *Client) []Source {
	return []Source{
		{Tag: "CATCH", Name: "Catch", Hashtag: "#CatchAU", Fetch: tileFetcher(c, catchRule)},
		{Tag: "KOGAN", Name: "Kogan", Hashtag: "#KoganAU", Fetch: tileFetcher(c, koganRule)},
		{Tag: "MYDEAL", Name: "MyDeal", Hashtag: "#MyDealAU", Fetch: tileFetcher(c, mydealRule)},
		{Tag: "OFFICEWORKS", Name: "Officeworks", Hashtag: "#Officeworks", Fetch: tileFetcher(c, officeworksRule)},
		{Tag: "OZBARGAIN", Name: "Local Deals", Hashtag: "#Ozbargain", Fetch: feedFetcher(c)},
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return data, nil
}
