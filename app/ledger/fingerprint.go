package ledger

import (
	"strings"

	"github.com/ozdeals/dealpress/app/deal"
)

// fingerprintMaxLen bounds fingerprint size so oversized scraped identifiers
// cannot bloat the ledger file.
const fingerprintMaxLen = 240

// Fingerprint derives the deterministic dedup identity for a deal:
// store tag, identity anchor (explicit id, else the query-stripped URL) and
// the displayed current price. A price change on the same item is a new,
// postable event; tracking-parameter differences are not.
func Fingerprint(d deal.Deal) string {
	store := strings.ToLower(d.StoreTag)
	id := strings.ToLower(d.Identity())
	price := strings.ReplaceAll(strings.ToLower(d.NowText()), " ", "")

	key := store + "|" + id + "|" + price
	if len(key) > fingerprintMaxLen {
		key = key[:fingerprintMaxLen]
	}
	return key
}
