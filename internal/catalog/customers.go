package catalog

import (
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type CustomerFilter struct {
	Query  string // name or phone
	Offset *int
	Limit  *int
}

func FilterCustomers(customers []models.Customer, cf CustomerFilter) ([]models.Customer, int) {
	q := strings.ToLower(strings.TrimSpace(cf.Query))
	filtered := []models.Customer{}
	for _, c := range customers {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(c.Phone, q) {
			continue
		}
		filtered = append(filtered, c)
	}
	return paginate(filtered, cf.Offset, cf.Limit)
}
