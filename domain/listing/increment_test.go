package listing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/curiomart/goapi/domain"
)

func userIdPtr(s string) *domain.UserId {
	u := domain.UserId(s)
	return &u
}

func TestIncrement(t *testing.T) {
	testcases := []struct {
		currentPrice string
		increment    string
	}{
		{"0.99", "0.05"},
		{"1", "0.25"},
		{"4.99", "0.25"},
		{"5", "0.5"},
		{"24.99", "0.5"},
		{"25", "1"},
		{"99.99", "1"},
		{"100", "2.5"},
		{"249.99", "2.5"},
		{"250", "5"},
		{"999.99", "5"},
		{"1000", "10"},
		{"125000", "10"},
	}

	for _, tc := range testcases {
		cur := decimal.RequireFromString(tc.currentPrice)
		want := decimal.RequireFromString(tc.increment)
		assert.True(t, Increment(cur).Equal(want), "price %s", tc.currentPrice)
	}
}

func TestMinimumNextBid(t *testing.T) {
	noBid := &Listing{Type: TypeAuction, CurrentPrice: 10}
	assert.True(t, MinimumNextBid(noBid).Equal(decimal.NewFromInt(10)))

	bidder := "bidder-1"
	withBid := &Listing{Type: TypeAuction, CurrentPrice: 10, HighBidderId: userIdPtr(bidder), BidCount: 1}
	assert.True(t, MinimumNextBid(withBid).Equal(decimal.RequireFromString("10.5")))

	highband := &Listing{Type: TypeAuction, CurrentPrice: 300, HighBidderId: userIdPtr(bidder), BidCount: 2}
	assert.True(t, MinimumNextBid(highband).Equal(decimal.NewFromInt(305)))
}
