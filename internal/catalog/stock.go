package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type StockHistoryFilter struct {
	Reason *models.StockReason
	SKU    string
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

func FilterStockHistory(entries []models.StockHistoryEntry, sf StockHistoryFilter) ([]models.StockHistoryEntry, int) {
	filtered := []models.StockHistoryEntry{}
	for _, e := range entries {
		if sf.Reason != nil && e.Reason != *sf.Reason {
			continue
		}
		if sf.SKU != "" && !strings.EqualFold(e.ProductSKU, sf.SKU) {
			continue
		}
		if sf.Since != nil && e.CreatedAt.Before(*sf.Since) {
			continue
		}
		if sf.Until != nil && e.CreatedAt.After(*sf.Until) {
			continue
		}
		filtered = append(filtered, e)
	}
	sortNewestFirst(filtered)
	return paginate(filtered, sf.Offset, sf.Limit)
}

// StockDay aggregates one calendar day of stock history. In sums
// positive changes and Out the magnitude of negative ones.
type StockDay struct {
	Date    string                     `json:"date"`
	In      int                        `json:"in"`
	Out     int                        `json:"out"`
	Entries []models.StockHistoryEntry `json:"entries"`
}

// GroupStockHistoryByDay buckets entries by their date in loc, newest day
// first, entries newest first inside each day.
func GroupStockHistoryByDay(entries []models.StockHistoryEntry, loc *time.Location) []StockDay {
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]models.StockHistoryEntry, len(entries))
	copy(sorted, entries)
	sortNewestFirst(sorted)

	days := []StockDay{}
	index := map[string]int{}
	for _, e := range sorted {
		date := e.CreatedAt.In(loc).Format(time.DateOnly)
		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, StockDay{Date: date, Entries: []models.StockHistoryEntry{}})
		}
		d := &days[i]
		if e.ChangeQty >= 0 {
			d.In += e.ChangeQty
		} else {
			d.Out -= e.ChangeQty
		}
		d.Entries = append(d.Entries, e)
	}
	return days
}

func sortNewestFirst(entries []models.StockHistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
