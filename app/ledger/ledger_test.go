package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozdeals/dealpress/app/deal"
)

func testDeal(tag, url string) deal.Deal {
	now := decimal.RequireFromString("19.99")
	return deal.Deal{StoreTag: tag, Title: "Test Deal", URL: url, Now: &now}
}

func TestFingerprintIgnoresQueryString(t *testing.T) {
	a := testDeal("CATCH", "https://www.catch.com.au/product/x?utm_source=feed")
	b := testDeal("CATCH", "https://www.catch.com.au/product/x?ref=tracking&cid=9")

	if Fingerprint(a) != Fingerprint(b) {
		t.Errorf("Expected equal fingerprints, got %q vs %q", Fingerprint(a), Fingerprint(b))
	}
	if Fingerprint(a) != Fingerprint(a) {
		t.Error("Expected fingerprint to be deterministic")
	}
}

func TestFingerprintPriceChangeIsNewEvent(t *testing.T) {
	a := testDeal("CATCH", "https://www.catch.com.au/product/x")
	b := a
	lower := decimal.RequireFromString("14.99")
	b.Now = &lower

	if Fingerprint(a) == Fingerprint(b) {
		t.Error("Expected a price change to produce a new fingerprint")
	}
}

func TestFingerprintPrefersExplicitID(t *testing.T) {
	a := testDeal("AMAZONAU", "https://www.amazon.com.au/dp/B000000001")
	a.ID = "B000000001"
	b := testDeal("AMAZONAU", "https://www.amazon.com.au/gp/product/B000000001")
	b.ID = "B000000001"

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("Expected explicit id to override differing URLs")
	}
}

func TestFingerprintLengthCap(t *testing.T) {
	d := testDeal("CATCH", "https://www.catch.com.au/product/"+strings.Repeat("x", 500))
	if len(Fingerprint(d)) > 240 {
		t.Errorf("Expected fingerprint capped at 240, got %d", len(Fingerprint(d)))
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := Load(filepath.Join(t.TempDir(), "missing.json"))
	if l.Len() != 0 {
		t.Errorf("Expected empty ledger for missing file, got %d entries", l.Len())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Load(path)
	if l.Len() != 0 {
		t.Errorf("Expected empty ledger for corrupt file, got %d entries", l.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "posted.json")

	l := New()
	l.Remember(testDeal("CATCH", "https://www.catch.com.au/product/a"))
	l.Remember(testDeal("KOGAN", "https://www.kogan.com/au/buy/b/"))

	if err := l.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(path)
	if loaded.Len() != 2 {
		t.Fatalf("Expected 2 entries after round trip, got %d", loaded.Len())
	}
	for i, e := range loaded.Posted {
		if e.Fingerprint != l.Posted[i].Fingerprint || e.PostedAt != l.Posted[i].PostedAt {
			t.Errorf("Entry %d mismatch: %+v vs %+v", i, e, l.Posted[i])
		}
	}
}

func TestSaveOverwritesPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")

	l := New()
	l.Remember(testDeal("CATCH", "https://www.catch.com.au/product/a"))
	l.Remember(testDeal("KOGAN", "https://www.kogan.com/au/buy/b/"))
	if err := l.Save(path); err != nil {
		t.Fatal(err)
	}

	smaller := New()
	smaller.Remember(testDeal("CATCH", "https://www.catch.com.au/product/a"))
	if err := smaller.Save(path); err != nil {
		t.Fatal(err)
	}

	if got := Load(path).Len(); got != 1 {
		t.Errorf("Expected full rewrite leaving 1 entry, got %d", got)
	}
}

func TestPruneDropsExpiredEntries(t *testing.T) {
	l := New()
	now := time.Now().UnixMilli()
	l.Posted = []Entry{
		{Fingerprint: "old", PostedAt: now - 8*24*int64(time.Hour/time.Millisecond)},
		{Fingerprint: "fresh", PostedAt: now - 1*24*int64(time.Hour/time.Millisecond)},
	}

	l.Prune(7)

	if l.Len() != 1 || l.Posted[0].Fingerprint != "fresh" {
		t.Errorf("Expected only fresh entry retained, got %+v", l.Posted)
	}
}

func TestContainsAfterRemember(t *testing.T) {
	l := New()
	d := testDeal("CATCH", "https://www.catch.com.au/product/a")

	if l.Contains(d) {
		t.Error("Expected empty ledger not to contain deal")
	}
	l.Remember(d)
	if !l.Contains(d) {
		t.Error("Expected ledger to contain remembered deal")
	}

	tracked := d
	tracked.URL = d.URL + "?utm_campaign=x"
	if !l.Contains(tracked) {
		t.Error("Expected tracking-parameter variant to match")
	}
}
