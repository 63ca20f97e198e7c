package cart

import (
	"math"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type Totals struct {
	Subtotal  models.Money `json:"subtotal"`
	Deposit   models.Money `json:"deposit"`
	Remaining models.Money `json:"remaining"`
}

// ParseDeposit reads operator input such as "50.000" or "50,000 VND".
// Every non-digit is dropped, so separators never act as decimal points.
// Empty or digitless input is zero; overflow saturates.
func ParseDeposit(text string) models.Money {
	var n int64
	for _, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		d := int64(r - '0')
		if n > (math.MaxInt64-d)/10 {
			return models.Money(math.MaxInt64)
		}
		n = n*10 + d
	}
	return models.Money(n)
}

// ComputeTotals never clamps Remaining: a deposit larger than the
// subtotal yields a negative balance.
func ComputeTotals(subtotal, deposit models.Money) Totals {
	return Totals{
		Subtotal:  subtotal,
		Deposit:   deposit,
		Remaining: subtotal - deposit,
	}
}

func (c *Cart) Totals(depositText string) Totals {
	return ComputeTotals(c.Subtotal(), ParseDeposit(depositText))
}
