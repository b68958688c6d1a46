package post

import (
	"fmt"
	"html"
	"strings"

	"github.com/ozdeals/dealpress/app/deal"
)

// Rank tags assigned by selection position.
const (
	TagTop      = "#TopDeals"
	TagStandard = "#GoodDeal"
)

// FormatCard renders the HTML caption for one deal. Pure formatting: the
// only transformation applied to inputs is HTML escaping.
func FormatCard(d deal.Deal, endsText string, hashtags []string) string {
	lines := []string{
		"🛒 <b>TODAY’S DEAL 🇦🇺</b>",
		"",
		fmt.Sprintf("<b>%s</b>", html.EscapeString(d.Title)),
		fmt.Sprintf("🏪 %s", html.EscapeString(d.Store)),
	}

	nowText, wasText := d.NowText(), d.WasText()
	if nowText != "" && wasText != "" {
		lines = append(lines, fmt.Sprintf("💲 Was: %s → <b>Now: %s</b>", wasText, nowText))
	} else if nowText != "" {
		lines = append(lines, fmt.Sprintf("💲 <b>Now: %s</b>", nowText))
	}

	if d.DiscountPct != nil {
		lines = append(lines, fmt.Sprintf("🔻 Save: %d%%", *d.DiscountPct))
	}

	if d.ExtraLine != "" {
		lines = append(lines, html.EscapeString(d.ExtraLine))
	}

	if endsText != "" {
		lines = append(lines, "", fmt.Sprintf("⏳ %s", html.EscapeString(endsText)))
	}

	tags := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 0 {
		lines = append(lines, "", strings.Join(tags, " "))
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FormatTextPost appends the resolved links to a caption for the plain-text
// delivery path, where inline buttons carry less weight than the body.
func FormatTextPost(caption, dealURL, browseURL string) string {
	return fmt.Sprintf("%s\n\n👉 Get Deal: %s\n📌 Browse More: %s", caption, dealURL, browseURL)
}
