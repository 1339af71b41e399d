package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/storefront-gateway/internal/domain"
)

func TestSummarize(t *testing.T) {
	policy := domain.CartPolicy{ShippingFee: 99, TaxRate: 0.08}

	tests := []struct {
		name  string
		lines []domain.CartLine
		want  domain.CartSummary
	}{
		{
			name:  "empty cart yields zero summary",
			lines: nil,
			want:  domain.CartSummary{},
		},
		{
			name: "single line",
			lines: []domain.CartLine{
				{ProductID: 1, UnitPrice: 12.5, Quantity: 2},
			},
			want: domain.CartSummary{
				Subtotal:    25,
				ShippingFee: 99,
				Tax:         2,
				Total:       126,
				TotalItems:  2,
			},
		},
		{
			name: "multiple lines accumulate",
			lines: []domain.CartLine{
				{ProductID: 1, UnitPrice: 10, Quantity: 3},
				{ProductID: 2, UnitPrice: 49.5, Quantity: 1},
			},
			want: domain.CartSummary{
				Subtotal:    79.5,
				ShippingFee: 99,
				Tax:         6,
				Total:       184.5,
				TotalItems:  4,
			},
		},
		{
			name: "tax rounds to nearest whole unit",
			lines: []domain.CartLine{
				{ProductID: 1, UnitPrice: 30, Quantity: 1},
			},
			want: domain.CartSummary{
				Subtotal:    30,
				ShippingFee: 99,
				Tax:         2,
				Total:       131,
				TotalItems:  1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.lines, policy))
		})
	}
}

func TestSummarizeZeroPolicy(t *testing.T) {
	lines := []domain.CartLine{{ProductID: 7, UnitPrice: 5, Quantity: 2}}
	got := Summarize(lines, domain.CartPolicy{})

	assert.Equal(t, float64(10), got.Subtotal)
	assert.Zero(t, got.ShippingFee)
	assert.Zero(t, got.Tax)
	assert.Equal(t, float64(10), got.Total)
}
