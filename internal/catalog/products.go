package catalog

import (
	"sort"
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type ProductFilter struct {
	Query     string // matches name or SKU
	Category  string
	Brand     string
	MinPrice  *models.Money
	MaxPrice  *models.Money
	MinStock  *int
	MaxStock  *int
	LowStock  bool
	Threshold int // used with LowStock
	Offset    *int
	Limit     *int
}

func matchesProduct(p models.Product, pf ProductFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(pf.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			return false
		}
	}
	if pf.Category != "" && !strings.EqualFold(p.Category, pf.Category) {
		return false
	}
	if pf.Brand != "" && !strings.EqualFold(p.Brand, pf.Brand) {
		return false
	}
	if pf.MinPrice != nil && p.SalePrice < *pf.MinPrice {
		return false
	}
	if pf.MaxPrice != nil && p.SalePrice > *pf.MaxPrice {
		return false
	}
	if pf.MinStock != nil && p.Stock < *pf.MinStock {
		return false
	}
	if pf.MaxStock != nil && p.Stock > *pf.MaxStock {
		return false
	}
	if pf.LowStock && p.Stock > pf.Threshold {
		return false
	}
	return true
}

// FilterProducts keeps the input order and returns the page plus the
// number of matches before paging.
func FilterProducts(products []models.Product, pf ProductFilter) ([]models.Product, int) {
	filtered := []models.Product{}
	for _, p := range products {
		if matchesProduct(p, pf) {
			filtered = append(filtered, p)
		}
	}
	return paginate(filtered, pf.Offset, pf.Limit)
}

func Categories(products []models.Product) []string {
	return distinct(products, func(p models.Product) string { return p.Category })
}

func Brands(products []models.Product) []string {
	return distinct(products, func(p models.Product) string { return p.Brand })
}

func distinct(products []models.Product, field func(models.Product) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		v := strings.TrimSpace(field(p))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
