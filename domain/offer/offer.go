package offer

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCountered Status = "countered"
	StatusExpired   Status = "expired"
)

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusExpired
}

// Lifetime is how long a pending or countered offer stays actionable
const Lifetime = 48 * time.Hour

type Offer struct {
	Id        string        `json:"id" bson:"id"`
	ListingId string        `json:"listingId" bson:"listingId"`
	BuyerId   domain.UserId `json:"buyerId" bson:"buyerId"`
	SellerId  domain.UserId `json:"sellerId" bson:"sellerId"`
	Amount    float64       `json:"amount" bson:"amount"`
	Status    Status        `json:"status" bson:"status"`
	// CounterAmount is set when the seller counters; the buyer accepts or
	// rejects that amount, never a second counter
	CounterAmount *float64  `json:"counterAmount,omitempty" bson:"counterAmount,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt" bson:"expiresAt"`
	Version       int64     `json:"version" bson:"version"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsExpiredAt reports whether a still-open offer has passed its deadline.
// Expiry is lazy; the stored status flips on the next read or write that
// observes it.
func (o *Offer) IsExpiredAt(now time.Time) bool {
	return !o.Status.IsTerminal() && !now.Before(o.ExpiresAt)
}

type Patchable struct {
	Status        *Status    `bson:"status,omitempty"`
	CounterAmount *float64   `bson:"counterAmount,omitempty"`
	ExpiresAt     *time.Time `bson:"expiresAt,omitempty"`
}

type FindAllOptions struct {
	ListingId *string        `bson:"listingId,omitempty"`
	BuyerId   *domain.UserId `bson:"buyerId,omitempty"`
	SellerId  *domain.UserId `bson:"sellerId,omitempty"`
	Statuses  []Status       `bson:"-"`
	Sort      *string        `bson:"-"`
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

func WithListingId(listingId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ListingId = &listingId
		return nil
	}
}

func WithBuyerId(buyerId domain.UserId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.BuyerId = &buyerId
		return nil
	}
}

func WithSellerId(sellerId domain.UserId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SellerId = &sellerId
		return nil
	}
}

func WithStatuses(ss ...Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Statuses = ss
		return nil
	}
}

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
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
	Insert(ctx ctx.Ctx, o *Offer) error
	FindOne(ctx ctx.Ctx, offerId string) (*Offer, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Offer, error)
	Update(ctx ctx.Ctx, offerId string, patchable Patchable) error
	// UpdateWithVersion fails with domain.ErrVersionConflict when the offer
	// changed since the caller read it
	UpdateWithVersion(ctx ctx.Ctx, offerId string, expectedVersion int64, patchable Patchable) error
}

type RespondAction string

const (
	ActionAccept  RespondAction = "accept"
	ActionReject  RespondAction = "reject"
	ActionCounter RespondAction = "counter"
)

type UseCase interface {
	Create(ctx ctx.Ctx, buyerId domain.UserId, listingId string, amount float64) (*Offer, error)
	// Respond is the seller's move on a pending offer
	Respond(ctx ctx.Ctx, sellerId domain.UserId, offerId string, action RespondAction, counterAmount *float64) (*Offer, error)
	// RespondToCounter is the buyer's move on a countered offer; counter is
	// not a legal action here
	RespondToCounter(ctx ctx.Ctx, buyerId domain.UserId, offerId string, action RespondAction) (*Offer, error)
	ListByListing(ctx ctx.Ctx, callerId domain.UserId, listingId string) ([]*Offer, error)
	ListByBuyer(ctx ctx.Ctx, buyerId domain.UserId) ([]*Offer, error)
}
