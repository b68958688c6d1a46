package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ozdeals/dealpress/app/deal"
)

// tileRule describes how to lift product tiles off a marketplace deals page.
// These pages render server-side, so a plain GET plus selectors is enough;
// stores that need a real browser are not handled here.
type tileRule struct {
	store    string
	pageURL  string
	baseURL  string
	linkSel  string
	titleSel string // empty: title comes from the anchor's aria-label
	favicon  string
}

var catchRule = tileRule{
	store:    "Catch",
	pageURL:  "https://www.catch.com.au/deals",
	baseURL:  "https://www.catch.com.au",
	linkSel:  `a[href^="/product/"]`,
	titleSel: `[data-testid="product-title"]`,
	favicon:  "https://www.catch.com.au/favicon.ico",
}

var koganRule = tileRule{
	store:    "Kogan",
	pageURL:  "https://www.kogan.com/au/deals/",
	baseURL:  "https://www.kogan.com",
	linkSel:  `a[href^="/"]:has(.product-title)`,
	titleSel: ".product-title",
	favicon:  "https://www.kogan.com/favicon.ico",
}

var mydealRule = tileRule{
	store:    "MyDeal",
	pageURL:  "https://www.mydeal.com.au/deals",
	baseURL:  "https://www.mydeal.com.au",
	linkSel:  `a[href^="/"]:has(.product-name)`,
	titleSel: ".product-name",
	favicon:  "https://www.mydeal.com.au/favicon.ico",
}

var officeworksRule = tileRule{
	store:   "Officeworks",
	pageURL: "https://www.officeworks.com.au/shop/officeworks/c/deals",
	baseURL: "https://www.officeworks.com.au",
	linkSel: `a[href^="/shop/officeworks/p/"]`,
	favicon: "https://www.officeworks.com.au/favicon.ico",
}

func tileFetcher(c *Client, rule tileRule) FetchFunc {
	return func(ctx context.Context, limit int) ([]deal.Candidate, error) {
		data, err := c.get(ctx, rule.pageURL)
		if err != nil {
			return nil, err
		}
		return parseTiles(data, rule, limit)
	}
}

func parseTiles(data []byte, rule tileRule, limit int) ([]deal.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s page: %w", rule.store, err)
	}

	var candidates []deal.Candidate
	seen := make(map[string]bool)

	doc.Find(rule.linkSel).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if href == "" {
			return true
		}
		if !strings.HasPrefix(href, "http") {
			href = rule.baseURL + href
		}
		href = deal.StripQuery(href)
		if seen[href] {
			return true
		}

		title := tileTitle(a, rule)
		if title == "" {
			return true
		}

		// First dollar amount in the tile is the current price; these
		// listings carry no original price.
		nowText, _ := deal.ExtractPriceTexts(tileText(a))
		if nowText == "" {
			return true
		}

		seen[href] = true
		candidates = append(candidates, deal.Candidate{
			Store:    rule.store,
			Title:    title,
			URL:      href,
			NowText:  nowText,
			ImageURL: rule.favicon,
		})
		return len(candidates) < limit
	})

	return candidates, nil
}

func tileTitle(a *goquery.Selection, rule tileRule) string {
	if rule.titleSel == "" {
		return deal.NormalizeSpace(a.AttrOr("aria-label", ""))
	}
	title := a.Find(rule.titleSel).First().Text()
	if title == "" {
		// Some layouts keep the title next to the anchor rather than in it.
		title = a.Parent().Find(rule.titleSel).First().Text()
	}
	return deal.NormalizeSpace(title)
}

func tileText(a *goquery.Selection) string {
	text := a.Text()
	if !strings.Contains(text, "$") {
		text = a.Parent().Text()
	}
	return text
}
