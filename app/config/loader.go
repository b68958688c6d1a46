package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the stores file. A missing file yields the built-in defaults;
// a present-but-broken file is an error so a typo cannot silently wipe the
// affiliate tables.
func Load(path string) (*Stores, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("Stores file not found, using defaults", "path", path)
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stores file: %w", err)
	}

	var stores Stores
	if err := yaml.Unmarshal(data, &stores); err != nil {
		return nil, fmt.Errorf("failed to parse stores file: %w", err)
	}

	if len(stores.StaticFallback) == 0 {
		stores.StaticFallback = Defaults().StaticFallback
	}
	if err := validate(&stores); err != nil {
		return nil, fmt.Errorf("invalid stores file %s: %w", path, err)
	}

	return &stores, nil
}

// Defaults returns the built-in tables: no deeplinks and the evergreen
// clearance landing pages as static fallback.
func Defaults() *Stores {
	return &Stores{
		Affiliate: Affiliate{Deeplinks: map[string]string{}},
		StaticFallback: []StaticEntry{
			{Title: "🔥 Catch – Up to 90% OFF Clearance", Store: "Catch", URL: "https://www.catch.com.au/deals"},
			{Title: "⚡ Kogan – Daily Mega Deals", Store: "Kogan", URL: "https://www.kogan.com/au/deals/"},
			{Title: "💄 Priceline – Beauty Offers", Store: "Priceline", URL: "https://www.priceline.com.au/offers"},
			{Title: "🖥️ Officeworks – Clearance Specials", Store: "Officeworks", URL: "https://www.officeworks.com.au/shop/officeworks/specials"},
		},
	}
}

func validate(stores *Stores) error {
	for i, entry := range stores.StaticFallback {
		if entry.Title == "" {
			return fmt.Errorf("static fallback entry %d has no title", i)
		}
		if entry.URL == "" {
			return fmt.Errorf("static fallback entry %d has no url", i)
		}
	}
	return nil
}
