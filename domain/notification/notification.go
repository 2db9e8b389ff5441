package notification

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

type EventType string

const (
	EventListingSold     EventType = "listing.sold"
	EventAuctionWon      EventType = "auction.won"
	EventAuctionUnsold   EventType = "auction.unsold"
	EventOutbid          EventType = "bid.outbid"
	EventWatchedEnded    EventType = "watchlist.listing_ended"
	EventOfferReceived   EventType = "offer.received"
	EventOfferCountered  EventType = "offer.countered"
	EventOfferAccepted   EventType = "offer.accepted"
	EventOfferRejected   EventType = "offer.rejected"
	EventPaymentReceived EventType = "payment.received"
)

// Event is one user-facing notification. DedupeKey carries a unique index so
// replays of the same logical event collapse into one row.
type Event struct {
	Id        string                 `json:"id" bson:"id"`
	UserId    domain.UserId          `json:"userId" bson:"userId"`
	Type      EventType              `json:"type" bson:"type"`
	ListingId string                 `json:"listingId" bson:"listingId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	DedupeKey string                 `json:"-" bson:"dedupeKey"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}

type FindAllOptions struct {
	UserId *domain.UserId `bson:"userId,omitempty"`
	Offset *int32         `bson:"-"`
	Limit  *int32         `bson:"-"`
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

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	// Insert drops the event silently when its dedupe key already exists
	Insert(ctx ctx.Ctx, e *Event) error
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Event, error)
}

// Dispatcher is the write side used by the other usecases. Delivery failures
// are logged and never fail the triggering operation.
type Dispatcher interface {
	Dispatch(ctx ctx.Ctx, e *Event)
}

type UseCase interface {
	Dispatcher
	ListByUser(ctx ctx.Ctx, userId domain.UserId, offset, limit int32) ([]*Event, error)
}
