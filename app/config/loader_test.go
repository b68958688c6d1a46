package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	stores, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(stores.StaticFallback) != 4 {
		t.Errorf("Expected 4 default fallback entries, got %d", len(stores.StaticFallback))
	}
	if len(stores.Affiliate.Deeplinks) != 0 {
		t.Errorf("Expected no default deeplinks, got %v", stores.Affiliate.Deeplinks)
	}
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.yml")
	content := `affiliate:
  deeplinks:
    CATCH: "https://network.example.com/deeplink?mid=1&url="
static_fallback:
  - title: "Clearance Deals"
    store: "Catch"
    url: "https://www.catch.com.au/deals"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stores, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if stores.Affiliate.Deeplinks["CATCH"] == "" {
		t.Error("Expected CATCH deeplink loaded")
	}
	if len(stores.StaticFallback) != 1 || stores.StaticFallback[0].Title != "Clearance Deals" {
		t.Errorf("Expected configured fallback entry, got %+v", stores.StaticFallback)
	}
}

func TestLoadEmptyFallbackGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.yml")
	content := `affiliate:
  deeplinks:
    KOGAN: "https://network.example.com/deeplink?mid=2&url="
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stores, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(stores.StaticFallback) == 0 {
		t.Error("Expected defaults injected when static_fallback omitted")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.yml")
	if err := os.WriteFile(path, []byte("affiliate: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadInvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.yml")
	content := `static_fallback:
  - store: "Catch"
    url: "https://www.catch.com.au/deals"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for entry without title")
	}
}
