package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ozdeals/dealpress/app/deal"
	"github.com/ozdeals/dealpress/app/ledger"
)

// PublishedDeal is one archived post.
type PublishedDeal struct {
	ID           int64
	Fingerprint  string
	StoreTag     string
	Title        string
	URL          string
	NowPrice     string
	WasPrice     string
	DiscountPct  *int
	DeliveredVia string
	PostedAt     time.Time
}

// StoreCount pairs a store tag with its archived post count.
type StoreCount struct {
	StoreTag string
	Count    int
}

// Stats summarizes the archive for the stats endpoint.
type Stats struct {
	Total        int
	PerStore     []StoreCount
	LastPostedAt *time.Time
}

// Repository handles archive reads and writes. The archive is append-only
// history; unlike the ledger it is never pruned.
type Repository struct {
	db *DB
}

// NewRepository creates a new archive repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Record archives a successfully published deal.
func (r *Repository) Record(d deal.Deal, via string, postedAt time.Time) error {
	var pct sql.NullInt64
	if d.DiscountPct != nil {
		pct = sql.NullInt64{Int64: int64(*d.DiscountPct), Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO published_deals (
			fingerprint, store_tag, title, url,
			now_price, was_price, discount_pct, delivered_via, posted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ledger.Fingerprint(d), d.StoreTag, d.Title, d.URL,
		d.NowText(), d.WasText(), pct, via, postedAt.UnixMilli())

	if err != nil {
		return fmt.Errorf("failed to archive deal: %w", err)
	}
	return nil
}

// Recent returns the most recently published deals, newest first.
func (r *Repository) Recent(limit int) ([]PublishedDeal, error) {
	rows, err := r.db.Query(`
		SELECT id, fingerprint, store_tag, title, url,
		       now_price, was_price, discount_pct, delivered_via, posted_at
		FROM published_deals
		ORDER BY posted_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent deals: %w", err)
	}
	defer rows.Close()

	var deals []PublishedDeal
	for rows.Next() {
		var d PublishedDeal
		var pct sql.NullInt64
		var postedAt int64

		err := rows.Scan(&d.ID, &d.Fingerprint, &d.StoreTag, &d.Title, &d.URL,
			&d.NowPrice, &d.WasPrice, &pct, &d.DeliveredVia, &postedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archived deal: %w", err)
		}

		if pct.Valid {
			value := int(pct.Int64)
			d.DiscountPct = &value
		}
		d.PostedAt = time.UnixMilli(postedAt)
		deals = append(deals, d)
	}

	return deals, rows.Err()
}

// GetStats aggregates archive totals, per-store counts and the latest post
// time.
func (r *Repository) GetStats() (Stats, error) {
	var stats Stats

	var last sql.NullInt64
	err := r.db.QueryRow(`
		SELECT COUNT(*), MAX(posted_at) FROM published_deals
	`).Scan(&stats.Total, &last)
	if err != nil {
		return stats, fmt.Errorf("failed to query archive totals: %w", err)
	}
	if last.Valid {
		t := time.UnixMilli(last.Int64)
		stats.LastPostedAt = &t
	}

	rows, err := r.db.Query(`
		SELECT store_tag, COUNT(*) AS n
		FROM published_deals
		GROUP BY store_tag
		ORDER BY n DESC, store_tag
	`)
	if err != nil {
		return stats, fmt.Errorf("failed to query per-store counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StoreCount
		if err := rows.Scan(&sc.StoreTag, &sc.Count); err != nil {
			return stats, fmt.Errorf("failed to scan store count: %w", err)
		}
		stats.PerStore = append(stats.PerStore, sc)
	}

	return stats, rows.Err()
}
