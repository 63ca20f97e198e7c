package catalog

import (
	"sort"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

var sizeRank = map[string]int{"XS": 1, "S": 2, "M": 3, "L": 4, "XL": 5, "XXL": 6, "XXXL": 7}

type VariantOption struct {
	models.Variant
	Available bool `json:"available"`
}

// VariantOptions orders variants for selection: by color, then by size
// using the usual apparel scale with unknown sizes last. Out of stock
// variants stay in the list but are not Available.
func VariantOptions(variants []models.Variant) []VariantOption {
	out := make([]VariantOption, 0, len(variants))
	for _, v := range variants {
		out = append(out, VariantOption{Variant: v, Available: v.Stock > 0})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		ra, rb := rank(a.Size), rank(b.Size)
		if ra != rb {
			return ra < rb
		}
		return a.Size < b.Size
	})
	return out
}

func rank(size string) int {
	if r, ok := sizeRank[size]; ok {
		return r
	}
	return len(sizeRank) + 1
}
