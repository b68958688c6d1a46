package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultDealsLimit = 50
const maxDealsLimit = 200

func NewHandler(archive ArchiveReader, version string) *Handler {
	return &Handler{
		archive: archive,
		version: version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if stats, err := h.archive.GetStats(); err == nil {
		health["published_total"] = stats.Total
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.archive.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read archive"})
		return
	}

	perStore := make([]map[string]interface{}, 0, len(stats.PerStore))
	for _, sc := range stats.PerStore {
		perStore = append(perStore, map[string]interface{}{
			"store": sc.StoreTag,
			"count": sc.Count,
		})
	}

	response := map[string]interface{}{
		"total":     stats.Total,
		"per_store": perStore,
	}
	if stats.LastPostedAt != nil {
		response["last_posted_at"] = stats.LastPostedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetDeals(c *gin.Context) {
	limit := defaultDealsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	if limit > maxDealsLimit {
		limit = maxDealsLimit
	}

	deals, err := h.archive.Recent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_deals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read archive"})
		return
	}

	items := make([]map[string]interface{}, 0, len(deals))
	for _, d := range deals {
		item := map[string]interface{}{
			"store":     d.StoreTag,
			"title":     d.Title,
			"url":       d.URL,
			"now_price": d.NowPrice,
			"via":       d.DeliveredVia,
			"posted_at": d.PostedAt.Format(time.RFC3339),
		}
		if d.WasPrice != "" {
			item["was_price"] = d.WasPrice
		}
		if d.DiscountPct != nil {
			item["discount_pct"] = *d.DiscountPct
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"deals": items,
		"total": len(items),
	})
}
