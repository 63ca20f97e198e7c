package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is an amount in whole currency units. The shop API is not
// consistent about prices: some endpoints send numbers, others send
// numeric strings with a fractional part, so decoding accepts both.
type Money int64

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid money value %s: %w", raw, err)
		}
		if s == "" {
			*m = 0
			return nil
		}
		raw = s
	}

	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMoney reads a decimal amount ("150000", "150000.50") and rounds
// it half away from zero to whole units.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	return Money(d.Round(0).IntPart()), nil
}

// Times returns the line amount for qty units.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}
