package rating

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

// Rating is a buyer's verdict on a completed transaction. One rating per
// listing per rater.
type Rating struct {
	Id        string        `json:"id" bson:"id"`
	ListingId string        `json:"listingId" bson:"listingId"`
	RaterId   domain.UserId `json:"raterId" bson:"raterId"`
	SellerId  domain.UserId `json:"sellerId" bson:"sellerId"`
	Positive  bool          `json:"positive" bson:"positive"`
	Comment   string        `json:"comment" bson:"comment"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

// SellerScore is the aggregate shown on listing pages
type SellerScore struct {
	SellerId        domain.UserId `json:"sellerId"`
	Total           int           `json:"total"`
	Positive        int           `json:"positive"`
	PositivePercent float64       `json:"positivePercent"`
}

type FindAllOptions struct {
	SellerId *domain.UserId `bson:"sellerId,omitempty"`
	Positive *bool          `bson:"positive,omitempty"`
	Offset   *int32         `bson:"-"`
	Limit    *int32         `bson:"-"`
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithSellerId(sellerId domain.UserId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SellerId = &sellerId
		return nil
	}
}

func WithPositive(positive bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Positive = &positive
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	Insert(ctx ctx.Ctx, r *Rating) error
	FindOneByListingAndRater(ctx ctx.Ctx, listingId string, raterId domain.UserId) (*Rating, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Rating, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
}

type UseCase interface {
	Submit(ctx ctx.Ctx, raterId domain.UserId, listingId string, positive bool, comment string) (*Rating, error)
	ListBySeller(ctx ctx.Ctx, sellerId domain.UserId, offset, limit int32) ([]*Rating, error)
	GetSellerScore(ctx ctx.Ctx, sellerId domain.UserId) (*SellerScore, error)
}
