package deal

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Weights tunes the selection score. Discount percentage dominates; the
// current price acts as a secondary signal, capped at Ceiling so expensive
// items cannot win on price alone.
type Weights struct {
	Discount float64
	Price    float64
	Ceiling  float64
}

// DefaultWeights favors discount over price roughly 10:1 at the ceiling.
func DefaultWeights() Weights {
	return Weights{Discount: 5.0, Price: 0.1, Ceiling: 500}
}

// Score computes a deal's selection score. Deals without a computable
// discount contribute zero on the discount term but are not excluded.
func Score(d Deal, w Weights) float64 {
	score := 0.0
	if d.DiscountPct != nil {
		score += float64(*d.DiscountPct) * w.Discount
	}
	if d.Now != nil {
		price, _ := d.Now.Float64()
		if price > w.Ceiling {
			price = w.Ceiling
		}
		score += price * w.Price
	}
	return score
}

// Select picks at most totalCap deals with at most perStoreCap per store,
// guaranteeing every represented store one slot before any store gets a
// second.
//
// Pass 1 walks storeOrder and seeds the highest-scoring deal of each store;
// seeding is deliberately not gated by perStoreCap. Pass 2 fills the
// remaining slots in score order, skipping stores at their cap. Ties keep
// the input's relative order. Output order is the later presentation order.
func Select(deals []Deal, storeOrder []string, totalCap, perStoreCap int, w Weights) []Deal {
	scores := make([]float64, len(deals))
	for i, d := range deals {
		scores[i] = Score(d, w)
	}

	idx := make([]int, len(deals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})

	selected := make(map[int]bool)
	perStore := make(map[string]int)
	out := make([]Deal, 0, totalCap)

	for _, tag := range storeOrder {
		if len(out) >= totalCap {
			break
		}
		for _, i := range idx {
			if selected[i] || deals[i].StoreTag != tag {
				continue
			}
			selected[i] = true
			perStore[tag]++
			out = append(out, deals[i])
			break
		}
	}

	for _, i := range idx {
		if len(out) >= totalCap {
			break
		}
		if selected[i] {
			continue
		}
		tag := deals[i].StoreTag
		if perStore[tag] >= perStoreCap {
			continue
		}
		selected[i] = true
		perStore[tag]++
		out = append(out, deals[i])
	}

	return out
}

// StrictOK reports whether a deal clears the strict tier thresholds.
func StrictOK(d Deal, minDiscount int, minPrice decimal.Decimal) bool {
	if d.DiscountPct == nil || *d.DiscountPct < minDiscount {
		return false
	}
	return d.Now != nil && d.Now.GreaterThanOrEqual(minPrice)
}
