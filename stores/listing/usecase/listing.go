package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/base/validator"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/account"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/domain/notification"
	"github.com/curiomart/goapi/domain/offer"
	"github.com/curiomart/goapi/domain/rating"
	"github.com/curiomart/goapi/service/query"
)

type ListingUseCaseCfg struct {
	ListingRepo listing.Repo
	BidRepo     listing.BidRepo
	OfferRepo   offer.Repo
	RatingUC    rating.UseCase
	Suspension  account.SuspensionChecker
	Notifier    notification.Dispatcher
	Query       query.Mongo
}

type impl struct {
	listingRepo listing.Repo
	bidRepo     listing.BidRepo
	offerRepo   offer.Repo
	ratingUC    rating.UseCase
	suspension  account.SuspensionChecker
	notifier    notification.Dispatcher
	q           query.Mongo
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	return &impl{
		listingRepo: cfg.ListingRepo,
		bidRepo:     cfg.BidRepo,
		offerRepo:   cfg.OfferRepo,
		ratingUC:    cfg.RatingUC,
		suspension:  cfg.Suspension,
		notifier:    cfg.Notifier,
		q:           cfg.Query,
	}
}

func (im *impl) ensureNotSuspended(c ctx.Ctx, userId domain.UserId) error {
	suspended, err := im.suspension.IsSuspended(c, userId)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "userId": userId}).Error("suspension.IsSuspended failed")
		return err
	}
	if suspended {
		return domain.ErrAccountSuspended
	}
	return nil
}

// validatePriceAmount enforces the whole-unit rule and the platform floor
func validatePriceAmount(v float64) error {
	if !validator.IsValidPriceAmount(v) {
		return domain.ErrBadParamInput
	}
	if v < listing.PlatformMinimumPrice && v != listing.LegacyMinimumPrice {
		return domain.ErrBadParamInput
	}
	return nil
}

func validateDuration(days int) error {
	if days < listing.MinDurationDays || days > listing.MaxDurationDays {
		return domain.ErrBadParamInput
	}
	return nil
}

// ensureNoLiveListing rejects a second active or scheduled listing for the
// same item
func (im *impl) ensureNoLiveListing(c ctx.Ctx, itemId string) error {
	count, err := im.listingRepo.Count(c,
		listing.WithItemId(itemId),
		listing.WithStatuses(listing.StatusScheduled, listing.StatusActive),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "itemId": itemId}).Error("listingRepo.Count failed")
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return nil
}

func (im *impl) CreateAuction(c ctx.Ctx, sellerId domain.UserId, params *listing.CreateAuctionParams) (*listing.Listing, error) {
	if err := im.ensureNotSuspended(c, sellerId); err != nil {
		return nil, err
	}
	if err := validatePriceAmount(params.StartingPrice); err != nil {
		return nil, err
	}
	if params.BuyItNowPrice != nil {
		if !validator.IsValidPriceAmount(*params.BuyItNowPrice) || *params.BuyItNowPrice <= params.StartingPrice {
			return nil, domain.ErrBadParamInput
		}
	}
	if err := validateDuration(params.DurationDays); err != nil {
		return nil, err
	}
	if len(params.DetailImages) > listing.MaxDetailImages {
		return nil, domain.ErrBadParamInput
	}
	if err := im.ensureNoLiveListing(c, params.ItemId); err != nil {
		return nil, err
	}

	now := time.Now()
	startTime := now
	status := listing.StatusActive
	if params.StartTime != nil && params.StartTime.After(now) {
		startTime = *params.StartTime
		status = listing.StatusScheduled
	}

	l := &listing.Listing{
		Id:            uuid.NewString(),
		SellerId:      sellerId,
		ItemId:        params.ItemId,
		Type:          listing.TypeAuction,
		Status:        status,
		StartingPrice: params.StartingPrice,
		CurrentPrice:  params.StartingPrice,
		BuyItNowPrice: params.BuyItNowPrice,
		StartTime:     startTime,
		EndTime:       startTime.AddDate(0, 0, params.DurationDays),
		DurationDays:  params.DurationDays,
		ShippingCost:  params.ShippingCost,
		Description:   params.Description,
		DetailImages:  params.DetailImages,
		PaymentStatus: listing.PaymentStatusNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := im.listingRepo.Insert(c, l); err != nil {
		c.WithFields(log.Fields{"err": err, "itemId": params.ItemId}).Error("listingRepo.Insert failed")
		return nil, err
	}
	return l, nil
}

func (im *impl) CreateFixedPrice(c ctx.Ctx, sellerId domain.UserId, params *listing.CreateFixedPriceParams) (*listing.Listing, error) {
	if err := im.ensureNotSuspended(c, sellerId); err != nil {
		return nil, err
	}
	if err := validatePriceAmount(params.Price); err != nil {
		return nil, err
	}
	if params.AcceptsOffers && params.MinOfferAmount != nil {
		min := *params.MinOfferAmount
		if err := validatePriceAmount(min); err != nil {
			return nil, err
		}
		if min >= params.Price {
			return nil, domain.ErrBadParamInput
		}
	}
	durationDays := params.DurationDays
	if durationDays == 0 {
		durationDays = listing.MaxDurationDays
	}
	if err := validateDuration(durationDays); err != nil {
		return nil, err
	}
	if len(params.DetailImages) > listing.MaxDetailImages {
		return nil, domain.ErrBadParamInput
	}
	if err := im.ensureNoLiveListing(c, params.ItemId); err != nil {
		return nil, err
	}

	now := time.Now()
	l := &listing.Listing{
		Id:             uuid.NewString(),
		SellerId:       sellerId,
		ItemId:         params.ItemId,
		Type:           listing.TypeFixedPrice,
		Status:         listing.StatusActive,
		Price:          params.Price,
		CurrentPrice:   params.Price,
		StartTime:      now,
		EndTime:        now.AddDate(0, 0, durationDays),
		DurationDays:   durationDays,
		AcceptsOffers:  params.AcceptsOffers,
		MinOfferAmount: params.MinOfferAmount,
		ShippingCost:   params.ShippingCost,
		Description:    params.Description,
		DetailImages:   params.DetailImages,
		PaymentStatus:  listing.PaymentStatusNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := im.listingRepo.Insert(c, l); err != nil {
		c.WithFields(log.Fields{"err": err, "itemId": params.ItemId}).Error("listingRepo.Insert failed")
		return nil, err
	}
	return l, nil
}

func (im *impl) Get(c ctx.Ctx, listingId string) (*listing.Detail, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	detail := &listing.Detail{
		Listing:              *l,
		TimeRemainingSeconds: int64(l.TimeRemaining(time.Now()).Seconds()),
	}
	if l.IsAuction() && l.Status == listing.StatusActive {
		detail.MinimumNextBid, _ = listing.MinimumNextBid(l).Float64()
	}
	if score, err := im.ratingUC.GetSellerScore(c, l.SellerId); err == nil {
		detail.SellerScore = score.PositivePercent
	} else {
		c.WithFields(log.Fields{"err": err, "sellerId": l.SellerId}).Warn("ratingUC.GetSellerScore failed")
	}
	return detail, nil
}

func (im *impl) Search(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) (*listing.SearchResult, error) {
	items, err := im.listingRepo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.FindAll failed")
		return nil, err
	}
	count, err := im.listingRepo.Count(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Count failed")
		return nil, err
	}
	return &listing.SearchResult{Items: items, Count: count}, nil
}

func (im *impl) Update(c ctx.Ctx, listingId string, sellerId domain.UserId, updater *listing.Updater) (*listing.Listing, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}
	if l.SellerId != sellerId {
		return nil, domain.ErrForbidden
	}
	if l.Status != listing.StatusScheduled && l.Status != listing.StatusActive {
		return nil, domain.ErrInvalidState
	}

	patchable := listing.Patchable{
		Description:  updater.Description,
		DetailImages: updater.DetailImages,
		ShippingCost: updater.ShippingCost,
	}
	if updater.BuyItNowPrice != nil {
		// price fields are frozen once someone has bid
		if l.HasBid() {
			return nil, domain.ErrInvalidState
		}
		if !validator.IsValidPriceAmount(*updater.BuyItNowPrice) || *updater.BuyItNowPrice <= l.CurrentPrice {
			return nil, domain.ErrBadParamInput
		}
		patchable.BuyItNowPrice = updater.BuyItNowPrice
	}

	if err := im.listingRepo.UpdateWithVersion(c, listingId, l.Version, patchable); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("listingRepo.UpdateWithVersion failed")
		return nil, err
	}
	return im.listingRepo.FindOne(c, listingId)
}

func (im *impl) Cancel(c ctx.Ctx, listingId string, sellerId domain.UserId, reason string) error {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return err
	}
	if l.SellerId != sellerId {
		return domain.ErrForbidden
	}

	switch {
	case l.Status == listing.StatusScheduled:
	case l.Status == listing.StatusActive && l.IsAuction() && !l.HasBid():
	case l.Status == listing.StatusActive && !l.IsAuction():
	default:
		return domain.ErrInvalidState
	}

	cancelled := listing.StatusCancelled
	if err := im.listingRepo.TransitionStatus(c, listingId, l.Status, listing.Patchable{Status: &cancelled}); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("listingRepo.TransitionStatus failed")
		return err
	}

	if !l.IsAuction() {
		im.rejectOpenOffers(c, l, reason)
	}
	return nil
}

// rejectOpenOffers closes out pending and countered offers after a
// fixed-price listing is cancelled. Failures are logged; the cancellation
// itself already committed.
func (im *impl) rejectOpenOffers(c ctx.Ctx, l *listing.Listing, reason string) {
	offers, err := im.offerRepo.FindAll(c,
		offer.WithListingId(l.Id),
		offer.WithStatuses(offer.StatusPending, offer.StatusCountered),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": l.Id}).Error("offerRepo.FindAll failed")
		return
	}

	rejected := offer.StatusRejected
	for _, o := range offers {
		if err := im.offerRepo.Update(c, o.Id, offer.Patchable{Status: &rejected}); err != nil {
			c.WithFields(log.Fields{"err": err, "offerId": o.Id}).Error("offerRepo.Update failed")
			continue
		}
		im.notifier.Dispatch(c, &notification.Event{
			UserId:    o.BuyerId,
			Type:      notification.EventOfferRejected,
			ListingId: l.Id,
			Metadata:  map[string]interface{}{"reason": reason},
			DedupeKey: "offer.rejected:" + o.Id,
		})
	}
}
