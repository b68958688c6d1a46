package post

import (
	"strings"
	"testing"
)

func TestResolveAmazonTag(t *testing.T) {
	r := NewResolver("ozdeals-22", nil)

	got := r.Resolve("AMAZONAU", "https://www.amazon.com.au/dp/B0ABCDEFGH?th=1&psc=1")
	if !strings.HasPrefix(got, "https://www.amazon.com.au/dp/B0ABCDEFGH") {
		t.Errorf("Expected product URL preserved, got %q", got)
	}
	if !strings.Contains(got, "tag=ozdeals-22") {
		t.Errorf("Expected partner tag appended, got %q", got)
	}
	if strings.Contains(got, "th=1") {
		t.Errorf("Expected pre-existing query stripped, got %q", got)
	}
}

func TestResolveAmazonWithoutTag(t *testing.T) {
	r := NewResolver("", nil)
	got := r.Resolve("AMAZONAU", "https://www.amazon.com.au/dp/B0ABCDEFGH?th=1")
	if got != "https://www.amazon.com.au/dp/B0ABCDEFGH" {
		t.Errorf("Expected clean pass-through without tag, got %q", got)
	}
}

func TestResolveDeeplink(t *testing.T) {
	r := NewResolver("", map[string]string{
		"CATCH": "https://network.example.com/deeplink?mid=123&url=",
	})

	got := r.Resolve("CATCH", "https://www.catch.com.au/product/x?clickid=9")
	want := "https://network.example.com/deeplink?mid=123&url=https%3A%2F%2Fwww.catch.com.au%2Fproduct%2Fx"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolvePassthroughStripsQuery(t *testing.T) {
	r := NewResolver("", nil)
	got := r.Resolve("KOGAN", "https://www.kogan.com/au/buy/x/?utm_source=feed")
	if got != "https://www.kogan.com/au/buy/x/" {
		t.Errorf("Expected stripped pass-through, got %q", got)
	}
}
