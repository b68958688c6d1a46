package cfg

import (
	"testing"
	"time"
)

func validRaw() *rawCfg {
	return &rawCfg{
		MaxTotal:          15,
		MaxPerStore:       4,
		MinDaily:          10,
		TTLDays:           7,
		RateLimitMS:       4500,
		FeedLimit:         120,
		StrictMinDiscount: 20,
		StrictMinPrice:    "120",
		FallbackMode:      "1",
		WeightDiscount:    5.0,
		WeightPrice:       0.1,
		PriceCeiling:      500,
		TelegramToken:     "token",
		TelegramChatID:    "@channel",
		StatePath:         "./data/posted.json",
		ArchivePath:       "./data/archive.db",
		StoresFile:        "./stores.yml",
		Port:              "8080",
		UserAgent:         "test-agent",
	}
}

func TestFromRawDefaults(t *testing.T) {
	cfg, err := fromRaw(validRaw())
	if err != nil {
		t.Fatalf("fromRaw failed: %v", err)
	}

	if cfg.PostInterval != 4500*time.Millisecond {
		t.Errorf("Expected 4.5s post interval, got %v", cfg.PostInterval)
	}
	if cfg.FetchLimit != 24 {
		t.Errorf("Expected fetch limit max(15, 4*6)=24, got %d", cfg.FetchLimit)
	}
	if !cfg.FallbackMode {
		t.Error("Expected fallback mode enabled for \"1\"")
	}
	if !cfg.StrictMinPrice.Equal(cfg.StrictMinPrice.Truncate(0)) || cfg.StrictMinPrice.String() != "120" {
		t.Errorf("Expected strict min price 120, got %s", cfg.StrictMinPrice)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be populated")
	}
}

func TestFromRawFetchLimitFloor(t *testing.T) {
	raw := validRaw()
	raw.MaxPerStore = 1
	cfg, err := fromRaw(raw)
	if err != nil {
		t.Fatalf("fromRaw failed: %v", err)
	}
	if cfg.FetchLimit != 15 {
		t.Errorf("Expected fetch limit floor 15, got %d", cfg.FetchLimit)
	}
}

func TestFromRawFallbackDisabled(t *testing.T) {
	raw := validRaw()
	raw.FallbackMode = "0"
	cfg, err := fromRaw(raw)
	if err != nil {
		t.Fatalf("fromRaw failed: %v", err)
	}
	if cfg.FallbackMode {
		t.Error("Expected fallback mode disabled for \"0\"")
	}
}

func TestValidateRequiresCredentials(t *testing.T) {
	raw := validRaw()
	raw.TelegramToken = ""
	if _, err := fromRaw(raw); err == nil {
		t.Error("Expected error for missing bot token")
	}

	raw = validRaw()
	raw.TelegramChatID = ""
	if _, err := fromRaw(raw); err == nil {
		t.Error("Expected error for missing chat id")
	}

	// Serve mode never sends, so credentials are optional there.
	raw = validRaw()
	raw.TelegramToken = ""
	raw.TelegramChatID = ""
	raw.Serve = true
	if _, err := fromRaw(raw); err != nil {
		t.Errorf("Expected serve mode to skip credential checks, got %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	raw := validRaw()
	raw.MaxTotal = 0
	if _, err := fromRaw(raw); err == nil {
		t.Error("Expected error for zero total cap")
	}

	raw = validRaw()
	raw.TTLDays = 0
	if _, err := fromRaw(raw); err == nil {
		t.Error("Expected error for zero TTL")
	}

	raw = validRaw()
	raw.StrictMinPrice = "not-a-number"
	if _, err := fromRaw(raw); err == nil {
		t.Error("Expected error for malformed strict price")
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}
