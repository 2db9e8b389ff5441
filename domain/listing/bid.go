package listing

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

// Bid is one accepted maximum bid. MaxBid is the hidden proxy ceiling and is
// never exposed through the anonymized history while the bid leads.
type Bid struct {
	Id        string        `json:"id" bson:"id"`
	ListingId string        `json:"listingId" bson:"listingId"`
	BidderId  domain.UserId `json:"bidderId" bson:"bidderId"`
	MaxBid    float64       `json:"maxBid" bson:"maxBid"`
	// Seq is the per-listing insertion order, assigned under the same version
	// guard as the listing write
	Seq       int       `json:"seq" bson:"seq"`
	PlacedAt  time.Time `json:"placedAt" bson:"placedAt"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type BidFindAllOptions struct {
	ListingId *string        `bson:"listingId,omitempty"`
	BidderId  *domain.UserId `bson:"bidderId,omitempty"`
	Sort      *string        `bson:"-"`
	Offset    *int32         `bson:"-"`
	Limit     *int32         `bson:"-"`
}

type BidFindAllOptionsFunc func(*BidFindAllOptions) error

func GetBidFindAllOptions(opts ...BidFindAllOptionsFunc) (BidFindAllOptions, error) {
	res := BidFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func BidWithListingId(listingId string) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.ListingId = &listingId
		return nil
	}
}

func BidWithBidderId(bidderId domain.UserId) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.BidderId = &bidderId
		return nil
	}
}

func BidWithSort(sort string) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}

func BidWithPagination(offset, limit int32) BidFindAllOptionsFunc {
	return func(options *BidFindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type BidRepo interface {
	Insert(ctx ctx.Ctx, b *Bid) error
	FindAll(ctx ctx.Ctx, opts ...BidFindAllOptionsFunc) ([]*Bid, error)
	Count(ctx ctx.Ctx, opts ...BidFindAllOptionsFunc) (int, error)
}

// BidHistoryEntry is a bid as shown to viewers. Bidder identity is replaced
// with a stable per-listing alias; the viewer's own bids carry their real
// amounts, everyone else's leading bid shows the visible price instead of the
// hidden maximum.
type BidHistoryEntry struct {
	Bidder   string    `json:"bidder"`
	IsViewer bool      `json:"isViewer,omitempty"`
	Amount   float64   `json:"amount"`
	PlacedAt time.Time `json:"placedAt"`
}
