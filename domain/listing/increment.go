package listing

import "github.com/shopspring/decimal"

type incrementBand struct {
	// upTo is the exclusive upper bound of the current price the band covers
	upTo      decimal.Decimal
	increment decimal.Decimal
}

// incrementBands is the tiered bid increment schedule. Bands are ordered and
// the last band is open-ended.
var incrementBands = []incrementBand{
	{upTo: decimal.NewFromInt(1), increment: decimal.NewFromFloat(0.05)},
	{upTo: decimal.NewFromInt(5), increment: decimal.NewFromFloat(0.25)},
	{upTo: decimal.NewFromInt(25), increment: decimal.NewFromFloat(0.50)},
	{upTo: decimal.NewFromInt(100), increment: decimal.NewFromInt(1)},
	{upTo: decimal.NewFromInt(250), increment: decimal.NewFromFloat(2.50)},
	{upTo: decimal.NewFromInt(1000), increment: decimal.NewFromInt(5)},
}

var topIncrement = decimal.NewFromInt(10)

// Increment returns the bid increment owed at the given current price
func Increment(currentPrice decimal.Decimal) decimal.Decimal {
	for _, band := range incrementBands {
		if currentPrice.LessThan(band.upTo) {
			return band.increment
		}
	}
	return topIncrement
}

// MinimumNextBid is the lowest maximum bid the listing will accept. Before
// the first bid it equals the starting price; after that it is the current
// price plus one increment.
func MinimumNextBid(l *Listing) decimal.Decimal {
	cur := decimal.NewFromFloat(l.CurrentPrice)
	if !l.HasBid() {
		return cur
	}
	return cur.Add(Increment(cur))
}
