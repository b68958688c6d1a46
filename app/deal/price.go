package deal

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyRe = regexp.MustCompile(`\$\s*\d+(?:\.\d{2})?`)
	pctOffRe   = regexp.MustCompile(`(?i)\b(\d{1,2})%\s*off\b`)
	savePctRe  = regexp.MustCompile(`(?i)\bsave\s*(\d{1,2})%\b`)
)

// ExtractPrice takes the first currency-formatted substring (dollar symbol
// plus digits with an optional 2-decimal fraction) from free-form text.
// Returns nil when none is present.
func ExtractPrice(s string) *decimal.Decimal {
	m := currencyRe.FindString(s)
	if m == "" {
		return nil
	}
	m = strings.TrimPrefix(strings.ReplaceAll(m, " ", ""), "$")
	value, err := decimal.NewFromString(m)
	if err != nil {
		return nil
	}
	return &value
}

// ExtractPriceTexts reads up to two currency-formatted substrings from free
// text, in order of appearance: the first is taken as the current price
// text, the second as the original. Feed titles like "Widget $49 (was $99)"
// resolve this way; repair later drops the pair when the order was wrong.
func ExtractPriceTexts(s string) (nowText, wasText string) {
	matches := currencyRe.FindAllString(s, 2)
	if len(matches) > 0 {
		nowText = matches[0]
	}
	if len(matches) > 1 {
		wasText = matches[1]
	}
	return nowText, wasText
}

// RepairPair enforces the price invariant: a reported original price must be
// strictly greater than the current one. When both sides parse but the pair
// is inverted or equal, the larger value is kept as the current price and the
// original is dropped rather than guessed. A lone parsed value always becomes
// the current price.
func RepairPair(now, was *decimal.Decimal) (*decimal.Decimal, *decimal.Decimal) {
	switch {
	case now == nil && was == nil:
		return nil, nil
	case now == nil:
		return was, nil
	case was == nil:
		return now, nil
	case was.GreaterThan(*now):
		return now, was
	default:
		// Ambiguous pair: keep the larger, never report a false discount.
		if now.GreaterThan(*was) {
			return now, nil
		}
		return was, nil
	}
}

// Discount computes the rounded percentage saved, defined only when both
// prices are present, positive, and was > now.
func Discount(now, was *decimal.Decimal) *int {
	if now == nil || was == nil {
		return nil
	}
	if now.IsZero() || was.IsZero() || !was.GreaterThan(*now) {
		return nil
	}
	pct := int(was.Sub(*now).Div(*was).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	return &pct
}

// DiscountFromTitle extracts a "30% off" or "save 30%" claim from item text.
// Used for feed items that carry no price pair at all.
func DiscountFromTitle(title string) *int {
	for _, re := range []*regexp.Regexp{pctOffRe, savePctRe} {
		if m := re.FindStringSubmatch(title); m != nil {
			pct := 0
			for _, c := range m[1] {
				pct = pct*10 + int(c-'0')
			}
			return &pct
		}
	}
	return nil
}
