package cfg

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cfg struct {
	// Selection tunables
	MaxTotal     int
	MaxPerStore  int
	MinDaily     int
	TTLDays      int
	PostInterval time.Duration
	FetchLimit   int // per-source fetch hint
	FeedLimit    int // alternate feed fetch cap

	// Strict tier thresholds
	StrictMinDiscount int
	StrictMinPrice    decimal.Decimal
	FallbackMode      bool

	// Scoring weights
	WeightDiscount float64
	WeightPrice    float64
	PriceCeiling   float64

	// Delivery credentials
	TelegramToken  string
	TelegramChatID string
	AmazonTag      string

	// Paths
	StatePath   string
	ArchivePath string
	StoresFile  string

	// Modes
	Serve    bool
	PostMenu bool
	TestPost bool

	// Application metadata
	Port      string
	UserAgent string
	Debug     bool
	Version   string
}
