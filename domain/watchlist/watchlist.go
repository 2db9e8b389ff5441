package watchlist

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
)

// Entry is one user watching one listing. The pair is unique.
type Entry struct {
	UserId    domain.UserId `json:"userId" bson:"userId"`
	ListingId string        `json:"listingId" bson:"listingId"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

type FindAllOptions struct {
	UserId    *domain.UserId `bson:"userId,omitempty"`
	ListingId *string        `bson:"listingId,omitempty"`
	Offset    *int32         `bson:"-"`
	Limit     *int32         `bson:"-"`
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

func WithUserId(userId domain.UserId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.UserId = &userId
		return nil
	}
}

func WithListingId(listingId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ListingId = &listingId
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
	Upsert(ctx ctx.Ctx, e *Entry) error
	Remove(ctx ctx.Ctx, userId domain.UserId, listingId string) error
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Entry, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
}

type UseCase interface {
	Add(ctx ctx.Ctx, userId domain.UserId, listingId string) error
	Remove(ctx ctx.Ctx, userId domain.UserId, listingId string) error
	// List returns the watched listings themselves, newest first
	List(ctx ctx.Ctx, userId domain.UserId, offset, limit int32) ([]*listing.Listing, error)
}
