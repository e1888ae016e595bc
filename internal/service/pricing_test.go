package service

import (
	"testing"

	"github.com/Verone2021/Verone-V1-sub003/internal/apierror"
	"github.com/Verone2021/Verone-V1-sub003/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimumSellingPrice(t *testing.T) {
	cases := []struct {
		name   string
		cost   string
		margin string
		want   string
	}{
		{"marge 25", "100", "25", "125"},
		{"marge 50", "80", "50", "120"},
		{"marge zéro", "49.99", "0", "49.99"},
		{"arrondi au centime", "10", "33.333", "13.33"},
		{"centimes en entrée", "7.77", "50", "11.66"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MinimumSellingPrice(
				decimal.RequireFromString(tc.cost),
				decimal.RequireFromString(tc.margin),
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"attendu %s, obtenu %s", tc.want, got)
		})
	}
}

func TestPreviewPrice_Nominal(t *testing.T) {
	resp, err := PreviewPrice(dto.PricePreviewRequest{
		CostPrice: decimal.RequireFromString("100"),
		MarginPct: decimal.RequireFromString("25"),
	})
	require.NoError(t, err)
	assert.True(t, resp.MinimumSellingPrice.Equal(decimal.RequireFromString("125")))
	assert.False(t, resp.LowMargin)
	assert.Nil(t, resp.Warning)
}

func TestPreviewPrice_LowMarginWarning(t *testing.T) {
	resp, err := PreviewPrice(dto.PricePreviewRequest{
		CostPrice: decimal.RequireFromString("100"),
		MarginPct: decimal.RequireFromString("3"),
	})
	require.NoError(t, err)
	assert.True(t, resp.LowMargin)
	require.NotNil(t, resp.Warning)
	assert.Contains(t, *resp.Warning, "Marge inférieure à 5%")
	// The price is still computed: a low margin warns, never blocks.
	assert.True(t, resp.MinimumSellingPrice.Equal(decimal.RequireFromString("103")))
}

func TestPreviewPrice_CostPriceInvalid(t *testing.T) {
	for _, cost := range []string{"0", "-10"} {
		_, err := PreviewPrice(dto.PricePreviewRequest{
			CostPrice: decimal.RequireFromString(cost),
			MarginPct: decimal.RequireFromString("25"),
		})
		require.Error(t, err)
		var e *apierror.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, apierror.CodeCostPriceInvalid, e.Code)
	}
}
