package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Selection tunables
	MaxTotal    int `long:"max-total" env:"MAX_POSTS_TOTAL" default:"15" description:"Total daily post cap"`
	MaxPerStore int `long:"max-per-store" env:"MAX_POSTS_PER_STORE" default:"4" description:"Per-store daily post cap"`
	MinDaily    int `long:"min-daily" env:"MIN_POSTS_DAILY" default:"10" description:"Minimum daily quota before fallback tiers engage"`
	TTLDays     int `long:"ttl-days" env:"DAYS_TTL" default:"7" description:"Dedup ledger retention in days"`
	RateLimitMS int `long:"rate-limit-ms" env:"RATE_LIMIT_MS" default:"4500" description:"Pause between posts in milliseconds"`
	FeedLimit   int `long:"feed-limit" env:"FEED_LIMIT" default:"120" description:"Alternate feed fetch cap"`

	// Strict tier thresholds
	StrictMinDiscount int    `long:"strict-min-discount" env:"STRICT_MIN_DISCOUNT" default:"20" description:"Strict tier minimum discount percent"`
	StrictMinPrice    string `long:"strict-min-price" env:"STRICT_MIN_PRICE" default:"120" description:"Strict tier minimum current price"`
	FallbackMode      string `long:"fallback-mode" env:"FALLBACK_MODE" default:"1" description:"Enable the fallback cascade (1/0)"`

	// Scoring weights
	WeightDiscount float64 `long:"weight-discount" env:"WEIGHT_DISCOUNT" default:"5.0" description:"Score weight for discount percent"`
	WeightPrice    float64 `long:"weight-price" env:"WEIGHT_PRICE" default:"0.1" description:"Score weight for current price"`
	PriceCeiling   float64 `long:"price-ceiling" env:"PRICE_CEILING" default:"500" description:"Price contribution cap for scoring"`

	// Delivery credentials
	TelegramToken  string `long:"telegram-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token (required unless --serve)"`
	TelegramChatID string `long:"telegram-chat" env:"TELEGRAM_CHAT_ID" description:"Telegram chat id or @channel (required unless --serve)"`
	AmazonTag      string `long:"amazon-tag" env:"AMAZON_TAG" description:"Amazon partner tag"`

	// Paths
	StatePath   string `long:"state-path" env:"STATE_PATH" default:"./data/posted.json" description:"Dedup ledger file"`
	ArchivePath string `long:"archive-path" env:"ARCHIVE_PATH" default:"./data/archive.db" description:"Publish archive database"`
	StoresFile  string `long:"stores-file" env:"STORES_FILE" default:"./stores.yml" description:"Affiliate deeplinks and static fallback config"`

	// Modes
	Serve    bool `long:"serve" description:"Run the stats API server instead of the pipeline"`
	PostMenu bool `long:"post-menu" description:"Post and pin the channel hashtag menu, then exit"`
	TestPost bool `long:"test-post" description:"Send a demo deal card, then exit"`

	// Application metadata
	Port      string `long:"port" env:"PORT" default:"8080" description:"Stats API port"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; dealpress/1.0)" description:"User agent for outbound requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg, err := fromRaw(&raw)
	if err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

func fromRaw(raw *rawCfg) (*Cfg, error) {
	strictMinPrice, err := decimal.NewFromString(raw.StrictMinPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid strict-min-price %q: %w", raw.StrictMinPrice, err)
	}

	cfg := &Cfg{
		MaxTotal:          raw.MaxTotal,
		MaxPerStore:       raw.MaxPerStore,
		MinDaily:          raw.MinDaily,
		TTLDays:           raw.TTLDays,
		PostInterval:      time.Duration(raw.RateLimitMS) * time.Millisecond,
		FetchLimit:        max(15, raw.MaxPerStore*6),
		FeedLimit:         raw.FeedLimit,
		StrictMinDiscount: raw.StrictMinDiscount,
		StrictMinPrice:    strictMinPrice,
		FallbackMode:      raw.FallbackMode == "1",
		WeightDiscount:    raw.WeightDiscount,
		WeightPrice:       raw.WeightPrice,
		PriceCeiling:      raw.PriceCeiling,
		TelegramToken:     raw.TelegramToken,
		TelegramChatID:    raw.TelegramChatID,
		AmazonTag:         raw.AmazonTag,
		StatePath:         raw.StatePath,
		ArchivePath:       raw.ArchivePath,
		StoresFile:        raw.StoresFile,
		Serve:             raw.Serve,
		PostMenu:          raw.PostMenu,
		TestPost:          raw.TestPost,
		Port:              raw.Port,
		UserAgent:         raw.UserAgent,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate catches configuration failures before any network activity. The
// delivery credentials are the only hard requirement, and only for modes
// that actually send.
func (c *Cfg) validate() error {
	if c.MaxTotal < 1 {
		return fmt.Errorf("max-total must be >= 1")
	}
	if c.MaxPerStore < 0 {
		return fmt.Errorf("max-per-store must be >= 0")
	}
	if c.TTLDays < 1 {
		return fmt.Errorf("ttl-days must be >= 1")
	}
	if !c.Serve {
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
		}
		if c.TelegramChatID == "" {
			return fmt.Errorf("TELEGRAM_CHAT_ID is required")
		}
	}
	return nil
}

// Get returns the loaded configuration. Panics when called before Load;
// that is a programming error, not a runtime condition.
func Get() *Cfg {
	if globalCfg == nil {
		panic("cfg.Get called before cfg.Load")
	}
	return globalCfg
}
