package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront-backend/internal/domains/order/model"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "0"},
		{"500", "500"},
		{"999", "999"},
		{"1000", "1,000"},
		{"99999", "99,999"},
		{"100000", "1,00,000"},
		{"1234567", "12,34,567"},
		{"12345678", "1,23,45,678"},
		{"123456789", "12,34,56,789"},
		{"1499.50", "1,499.50"},
		{"1499.5", "1,499.50"},
		{"250.00", "250"},
		{"-1234567", "-12,34,567"},
	}

	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.amount)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, FormatINR(amount), "amount %s", tt.amount)
	}
}

func TestBuildHandoffMessage(t *testing.T) {
	code := "CHAI20"
	order := &model.Order{
		UserName:       "Priya",
		Subtotal:       decimal.NewFromInt(1250),
		DiscountAmount: decimal.NewFromInt(250),
		Total:          decimal.NewFromInt(1000),
		CouponCode:     &code,
		Items: []model.OrderItem{
			{Name: "Masala Chai", Quantity: 2, LineTotal: decimal.NewFromInt(500)},
			{Name: "Filter Coffee", Quantity: 1, LineTotal: decimal.NewFromInt(750)},
		},
	}

	message := BuildHandoffMessage(order)

	assert.Equal(t,
		"Hi, my name is Priya\n\n"+
			"I would like to order the following items:\n"+
			"1. Masala Chai × 2 – ₹500\n"+
			"2. Filter Coffee × 1 – ₹750\n"+
			"\nSubtotal: ₹1,250\n"+
			"Coupon CHAI20: -₹250\n"+
			"\nTotal: ₹1,000\n\n"+
			"Please let me know the next steps.",
		message)
}

func TestBuildHandoffMessage_WithoutCoupon(t *testing.T) {
	order := &model.Order{
		UserName: "Priya",
		Subtotal: decimal.NewFromInt(500),
		Total:    decimal.NewFromInt(500),
		Items: []model.OrderItem{
			{Name: "Masala Chai", Quantity: 2, LineTotal: decimal.NewFromInt(500)},
		},
	}

	message := BuildHandoffMessage(order)

	assert.NotContains(t, message, "Subtotal")
	assert.NotContains(t, message, "Coupon")
	assert.Contains(t, message, "Total: ₹500")
}

func TestBuildHandoffMessage_FallbackName(t *testing.T) {
	order := &model.Order{
		Total: decimal.NewFromInt(100),
		Items: []model.OrderItem{
			{Name: "Masala Chai", Quantity: 1, LineTotal: decimal.NewFromInt(100)},
		},
	}

	assert.Contains(t, BuildHandoffMessage(order), "Hi, my name is a customer")
}
