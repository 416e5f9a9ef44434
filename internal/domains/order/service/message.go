package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/order/model"
)

// BuildHandoffMessage renders the WhatsApp order message. Line items are
// numbered; amounts use Indian digit grouping with the rupee sign.
func BuildHandoffMessage(order *model.Order) string {
	var b strings.Builder

	name := order.UserName
	if name == "" {
		name = "a customer"
	}
	fmt.Fprintf(&b, "Hi, my name is %s\n\n", name)
	b.WriteString("I would like to order the following items:\n")

	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s × %d – ₹%s\n", i+1, item.Name, item.Quantity, FormatINR(item.LineTotal))
	}

	if order.CouponCode != nil && order.DiscountAmount.IsPositive() {
		fmt.Fprintf(&b, "\nSubtotal: ₹%s\n", FormatINR(order.Subtotal))
		fmt.Fprintf(&b, "Coupon %s: -₹%s\n", *order.CouponCode, FormatINR(order.DiscountAmount))
	}

	fmt.Fprintf(&b, "\nTotal: ₹%s\n\n", FormatINR(order.Total))
	b.WriteString("Please let me know the next steps.")

	return b.String()
}

// FormatINR formats an amount with Indian grouping: the last three
// digits form one group, every pair before that gets its own comma
// (12,34,567). Whole amounts drop the fraction entirely.
func FormatINR(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}

	fraction := ""
	if !amount.Equal(amount.Truncate(0)) {
		s := amount.StringFixed(2)
		fraction = s[strings.LastIndex(s, "."):]
	}

	digits := amount.Truncate(0).String()
	grouped := groupIndian(digits)

	if negative {
		return "-" + grouped + fraction
	}
	return grouped + fraction
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)

	return strings.Join(parts, ",") + "," + tail
}
