package sources

import "testing"

var sampleFeed = []byte(`<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0">
<channel>
<title>Deals</title>
<item>
<title><![CDATA[Robot Vacuum $299 (Was $599) 50% off @ Example Store]]></title>
<link>https://www.example.com/deal/123?utm_source=rss</link>
<description><![CDATA[Half price robot vacuum, today only.]]></description>
</item>
<item>
<title>Free Shipping Weekend</title>
<link>https://www.example.com/deal/124</link>
<description>No minimum spend.</description>
</item>
<item>
<title>Missing Link Deal</title>
<description>Should be skipped.</description>
</item>
</channel>
</rss>`)

func TestParseFeed(t *testing.T) {
	candidates, err := ParseFeed(sampleFeed, 10)
	if err != nil {
		t.Fatalf("ParseFeed failed: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.URL != "https://www.example.com/deal/123" {
		t.Errorf("Expected tracking parameters stripped, got %q", first.URL)
	}
	if first.ID != first.URL {
		t.Errorf("Expected feed id anchored to link, got %q", first.ID)
	}
	if first.NowText != "$299" || first.WasText != "$599" {
		t.Errorf("Expected price pair $299/$599, got %q/%q", first.NowText, first.WasText)
	}
	if first.DiscountPct == nil || *first.DiscountPct != 50 {
		t.Errorf("Expected 50%% from title, got %v", first.DiscountPct)
	}

	second := candidates[1]
	if second.NowText != "" || second.DiscountPct != nil {
		t.Errorf("Expected priceless item, got now=%q pct=%v", second.NowText, second.DiscountPct)
	}
}

func TestParseFeedLimit(t *testing.T) {
	candidates, err := ParseFeed(sampleFeed, 1)
	if err != nil {
		t.Fatalf("ParseFeed failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("Expected limit honored, got %d candidates", len(candidates))
	}
}

func TestParseFeedInvalid(t *testing.T) {
	if _, err := ParseFeed([]byte("not a feed"), 10); err == nil {
		t.Error("Expected error for malformed feed")
	}
}
