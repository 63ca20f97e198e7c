package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want Money
	}{
		{`150000`, 150000},
		{`"150000"`, 150000},
		{`"150000.00"`, 150000},
		{`"149999.5"`, 150000},
		{`-12.5`, -13},
		{`null`, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var m Money
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestMoneyUnmarshal_Invalid(t *testing.T) {
	var m Money
	assert.Error(t, json.Unmarshal([]byte(`"12abc"`), &m))
	assert.Error(t, json.Unmarshal([]byte(`true`), &m))
}

func TestParseMoney(t *testing.T) {
	v, err := ParseMoney("89000.49")
	require.NoError(t, err)
	assert.Equal(t, Money(89000), v)

	_, err = ParseMoney("")
	assert.Error(t, err)
}

func TestVariantDecodesStringPrice(t *testing.T) {
	var v Variant
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"product_id":1,"size":"M","color":"Red","stock":4,"sale_price":"99000.00"}`), &v))
	assert.Equal(t, Money(99000), v.SalePrice)

	out, err := json.Marshal(Product{ID: 1, SalePrice: 5})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"sale_price":5`)
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus(" Shipping ")
	require.NoError(t, err)
	assert.Equal(t, OrderShipping, s)
	assert.True(t, s.Open())
	assert.False(t, OrderCompleted.Open())

	_, err = ParseOrderStatus("lost")
	assert.Error(t, err)
}
