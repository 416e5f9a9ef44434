package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	userID := uuid.New()
	sess := New(userID, "Priya")

	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, "Priya", sess.UserName)
	assert.Empty(t, sess.Items)
	assert.Nil(t, sess.AppliedCoupon)
	assert.Nil(t, sess.RecordedUsage)
}

func TestIsAuthenticated(t *testing.T) {
	assert.False(t, New(uuid.Nil, "").IsAuthenticated())
	assert.True(t, New(uuid.New(), "Priya").IsAuthenticated())
}

func TestTotalItems(t *testing.T) {
	sess := New(uuid.New(), "Priya")
	assert.Equal(t, 0, sess.TotalItems())

	sess.Items = []Item{
		{ProductID: uuid.New(), Quantity: 2},
		{ProductID: uuid.New(), Quantity: 5},
	}
	assert.Equal(t, 7, sess.TotalItems())
}

func TestItemQuantity(t *testing.T) {
	productID := uuid.New()
	sess := New(uuid.New(), "Priya")
	sess.Items = []Item{{ProductID: productID, Quantity: 3}}

	assert.Equal(t, 3, sess.ItemQuantity(productID))
	assert.Equal(t, 0, sess.ItemQuantity(uuid.New()))
}

func TestClearCoupon(t *testing.T) {
	sess := New(uuid.New(), "Priya")
	sess.AppliedCoupon = &AppliedCoupon{Code: "SAVE10"}
	sess.RecordedUsage = &RecordedUsage{Code: "SAVE10"}

	sess.ClearCoupon()

	assert.Nil(t, sess.AppliedCoupon)
	assert.NotNil(t, sess.RecordedUsage, "clearing the coupon must not drop a recorded usage")
}

func TestClearCheckoutState(t *testing.T) {
	sess := New(uuid.New(), "Priya")
	sess.AppliedCoupon = &AppliedCoupon{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(50)}
	sess.RecordedUsage = &RecordedUsage{Code: "SAVE10", DiscountAmount: decimal.NewFromInt(50)}
	sess.Items = []Item{{ProductID: uuid.New(), Quantity: 1}}

	sess.ClearCheckoutState()

	assert.Nil(t, sess.AppliedCoupon)
	assert.Nil(t, sess.RecordedUsage)
	assert.Len(t, sess.Items, 1, "checkout state does not include the cart itself")
}
