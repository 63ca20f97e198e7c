package catalog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type OrderFilter struct {
	Status     *models.OrderStatus
	CustomerID *int64
	Query      string // tracking code or order id
	Since      *time.Time
	Until      *time.Time
	Offset     *int
	Limit      *int
}

func matchesOrder(o models.Order, of OrderFilter) bool {
	if of.Status != nil && o.Status != *of.Status {
		return false
	}
	if of.CustomerID != nil && o.CustomerID != *of.CustomerID {
		return false
	}
	if q := strings.TrimSpace(of.Query); q != "" {
		byID := strconv.FormatInt(o.ID, 10) == strings.TrimPrefix(q, "#")
		byCode := strings.Contains(strings.ToLower(o.ChinaTrackingCode), strings.ToLower(q))
		if !byID && !byCode {
			return false
		}
	}
	if of.Since != nil && o.CreatedAt.Before(*of.Since) {
		return false
	}
	if of.Until != nil && o.CreatedAt.After(*of.Until) {
		return false
	}
	return true
}

// FilterOrders returns matching orders newest first.
func FilterOrders(orders []models.Order, of OrderFilter) ([]models.Order, int) {
	filtered := []models.Order{}
	for _, o := range orders {
		if matchesOrder(o, of) {
			filtered = append(filtered, o)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return paginate(filtered, of.Offset, of.Limit)
}
