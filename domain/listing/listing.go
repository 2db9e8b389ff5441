package listing

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

type Type string

const (
	TypeAuction    Type = "auction"
	TypeFixedPrice Type = "fixed_price"
)

func (t Type) IsValid() bool {
	return t == TypeAuction || t == TypeFixedPrice
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
	StatusSold      Status = "sold"
	StatusUnsold    Status = "unsold"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further lifecycle transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusSold || s == StatusUnsold || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusNone    PaymentStatus = "none"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

const (
	// PlatformMinimumPrice is the lowest legal starting/asking price
	PlatformMinimumPrice = 1.00
	// LegacyMinimumPrice is the single fractional amount still accepted for
	// backward compatibility with listings imported from the old platform
	LegacyMinimumPrice = 0.99

	MinDurationDays = 1
	MaxDurationDays = 14

	MaxDetailImages = 4
)

type Listing struct {
	Id       string        `json:"id" bson:"id"`
	SellerId domain.UserId `json:"sellerId" bson:"sellerId"`
	ItemId   string        `json:"itemId" bson:"itemId"`
	Type     Type          `json:"type" bson:"type"`
	Status   Status        `json:"status" bson:"status"`

	// StartingPrice is set for auctions, Price for fixed-price listings.
	// CurrentPrice mirrors Price for fixed-price listings so price filters and
	// sorts work on a single field; for auctions it is the visible price after
	// proxy-bid resolution and equals StartingPrice until the first bid.
	StartingPrice float64  `json:"startingPrice,omitempty" bson:"startingPrice,omitempty"`
	Price         float64  `json:"price,omitempty" bson:"price,omitempty"`
	CurrentPrice  float64  `json:"currentPrice" bson:"currentPrice"`
	BuyItNowPrice *float64 `json:"buyItNowPrice,omitempty" bson:"buyItNowPrice,omitempty"`

	HighBidderId *domain.UserId `json:"highBidderId,omitempty" bson:"highBidderId,omitempty"`
	// HighBidMax is the leader's hidden proxy ceiling; never serialized to
	// clients
	HighBidMax    *float64 `json:"-" bson:"highBidMax,omitempty"`
	WinningAmount *float64 `json:"winningAmount,omitempty" bson:"winningAmount,omitempty"`
	BidCount      int      `json:"bidCount" bson:"bidCount"`

	StartTime    time.Time `json:"startTime" bson:"startTime"`
	EndTime      time.Time `json:"endTime" bson:"endTime"`
	DurationDays int       `json:"durationDays,omitempty" bson:"durationDays,omitempty"`

	AcceptsOffers  bool     `json:"acceptsOffers" bson:"acceptsOffers"`
	MinOfferAmount *float64 `json:"minOfferAmount,omitempty" bson:"minOfferAmount,omitempty"`

	ShippingCost float64  `json:"shippingCost" bson:"shippingCost"`
	Description  string   `json:"description" bson:"description"`
	DetailImages []string `json:"detailImages" bson:"detailImages"`

	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`

	// Version increases on every write and is the optimistic lock for all
	// mutation paths (bidding, buy-it-now, offer acceptance, closing)
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (l *Listing) IsAuction() bool {
	return l.Type == TypeAuction
}

func (l *Listing) HasBid() bool {
	return l.BidCount > 0
}

// TimeRemaining reports the duration until EndTime, floored at zero
func (l *Listing) TimeRemaining(now time.Time) time.Duration {
	if !now.Before(l.EndTime) {
		return 0
	}
	return l.EndTime.Sub(now)
}

// Patchable fields are applied with $set; nil fields are skipped
type Patchable struct {
	Status        *Status        `bson:"status,omitempty"`
	CurrentPrice  *float64       `bson:"currentPrice,omitempty"`
	HighBidderId  *domain.UserId `bson:"highBidderId,omitempty"`
	HighBidMax    *float64       `bson:"highBidMax,omitempty"`
	WinningAmount *float64       `bson:"winningAmount,omitempty"`
	BidCount      *int           `bson:"bidCount,omitempty"`
	PaymentStatus *PaymentStatus `bson:"paymentStatus,omitempty"`
	EndTime       *time.Time     `bson:"endTime,omitempty"`
	BuyItNowPrice *float64       `bson:"buyItNowPrice,omitempty"`
	Description   *string        `bson:"description,omitempty"`
	DetailImages  *[]string      `bson:"detailImages,omitempty"`
	ShippingCost  *float64       `bson:"shippingCost,omitempty"`
}

const (
	SortEndingSoonest = "ending_soonest"
	SortNewest        = "newest"
	SortPriceLowHigh  = "price_low_high"
	SortPriceHighLow  = "price_high_low"
)

type FindAllOptions struct {
	SellerId     *domain.UserId `bson:"sellerId,omitempty"`
	ItemId       *string        `bson:"itemId,omitempty"`
	Type         *Type          `bson:"type,omitempty"`
	Status       *Status        `bson:"status,omitempty"`
	Statuses     []Status       `bson:"-"`
	PriceGTE     *float64       `bson:"-"`
	PriceLTE     *float64       `bson:"-"`
	HasBuyItNow  *bool          `bson:"-"`
	EndTimeLTE   *time.Time     `bson:"-"`
	StartTimeLTE *time.Time     `bson:"-"`
	Sort         *string        `bson:"-"`
	Offset       *int32         `bson:"-"`
	Limit        *int32         `bson:"-"`
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

func WithItemId(itemId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ItemId = &itemId
		return nil
	}
}

func WithType(t Type) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Type = &t
		return nil
	}
}

func WithStatus(s Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &s
		return nil
	}
}

func WithStatuses(ss ...Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Statuses = ss
		return nil
	}
}

func WithPriceGTE(v float64) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.PriceGTE = &v
		return nil
	}
}

func WithPriceLTE(v float64) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.PriceLTE = &v
		return nil
	}
}

func WithHasBuyItNow(has bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.HasBuyItNow = &has
		return nil
	}
}

func WithEndTimeLTE(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLTE = &t
		return nil
	}
}

func WithStartTimeLTE(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.StartTimeLTE = &t
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, listingId string) (*Listing, error)
	Insert(ctx ctx.Ctx, l *Listing) error
	// Update applies the patch unconditionally and bumps version
	Update(ctx ctx.Ctx, listingId string, patchable Patchable) error
	// UpdateWithVersion applies the patch only when the stored version still
	// equals expectedVersion; returns domain.ErrVersionConflict otherwise.
	// This is the single serialization point for all bid-state mutation.
	UpdateWithVersion(ctx ctx.Ctx, listingId string, expectedVersion int64, patchable Patchable) error
	// TransitionStatus applies the patch only when the stored status still
	// equals from; returns domain.ErrVersionConflict when another writer got
	// there first. Used by the lifecycle closer as its idempotency guard.
	TransitionStatus(ctx ctx.Ctx, listingId string, from Status, patchable Patchable) error
}

type CreateAuctionParams struct {
	ItemId        string     `json:"itemId"`
	StartingPrice float64    `json:"startingPrice"`
	BuyItNowPrice *float64   `json:"buyItNowPrice"`
	DurationDays  int        `json:"durationDays"`
	StartTime     *time.Time `json:"startTime"`
	ShippingCost  float64    `json:"shippingCost"`
	Description   string     `json:"description"`
	DetailImages  []string   `json:"detailImages"`
}

type CreateFixedPriceParams struct {
	ItemId         string   `json:"itemId"`
	Price          float64  `json:"price"`
	AcceptsOffers  bool     `json:"acceptsOffers"`
	MinOfferAmount *float64 `json:"minOfferAmount"`
	DurationDays   int      `json:"durationDays"`
	ShippingCost   float64  `json:"shippingCost"`
	Description    string   `json:"description"`
	DetailImages   []string `json:"detailImages"`
}

// Updater carries the seller-mutable fields; price fields are only accepted
// while the listing has no bid
type Updater struct {
	Description   *string   `json:"description"`
	DetailImages  *[]string `json:"detailImages"`
	BuyItNowPrice *float64  `json:"buyItNowPrice"`
	ShippingCost  *float64  `json:"shippingCost"`
}

// Detail is a listing plus the read-time computed fields
type Detail struct {
	Listing
	TimeRemainingSeconds int64   `json:"timeRemainingSeconds"`
	MinimumNextBid       float64 `json:"minimumNextBid,omitempty"`
	SellerScore          float64 `json:"sellerScore,omitempty"`
}

type SearchResult struct {
	Items []*Listing `json:"items"`
	Count int        `json:"count"`
}

type PlaceBidResult struct {
	Listing *Listing `json:"listing"`
	// Accepted is false for the self-raise no-op, where the caller already
	// leads and no rival forced the price up
	Accepted bool `json:"accepted"`
}

type UseCase interface {
	CreateAuction(ctx ctx.Ctx, sellerId domain.UserId, params *CreateAuctionParams) (*Listing, error)
	CreateFixedPrice(ctx ctx.Ctx, sellerId domain.UserId, params *CreateFixedPriceParams) (*Listing, error)
	Get(ctx ctx.Ctx, listingId string) (*Detail, error)
	Search(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (*SearchResult, error)
	Update(ctx ctx.Ctx, listingId string, sellerId domain.UserId, updater *Updater) (*Listing, error)
	Cancel(ctx ctx.Ctx, listingId string, sellerId domain.UserId, reason string) error
	PlaceBid(ctx ctx.Ctx, listingId string, bidderId domain.UserId, maxBid float64) (*PlaceBidResult, error)
	GetBidHistory(ctx ctx.Ctx, listingId string, viewerId domain.UserId) ([]*BidHistoryEntry, error)
}
