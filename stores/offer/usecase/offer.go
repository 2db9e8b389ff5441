package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/account"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/domain/notification"
	"github.com/curiomart/goapi/domain/offer"
)

type OfferUseCaseCfg struct {
	OfferRepo   offer.Repo
	ListingRepo listing.Repo
	Suspension  account.SuspensionChecker
	Notifier    notification.Dispatcher
}

type impl struct {
	offerRepo   offer.Repo
	listingRepo listing.Repo
	suspension  account.SuspensionChecker
	notifier    notification.Dispatcher
}

func New(cfg *OfferUseCaseCfg) offer.UseCase {
	return &impl{
		offerRepo:   cfg.OfferRepo,
		listingRepo: cfg.ListingRepo,
		suspension:  cfg.Suspension,
		notifier:    cfg.Notifier,
	}
}

// expireIfNeeded applies lazy expiry. The stored status flip is best effort;
// the returned offer always reflects the expiry.
func (im *impl) expireIfNeeded(c ctx.Ctx, o *offer.Offer, now time.Time) *offer.Offer {
	if !o.IsExpiredAt(now) {
		return o
	}
	expired := offer.StatusExpired
	if err := im.offerRepo.UpdateWithVersion(c, o.Id, o.Version, offer.Patchable{Status: &expired}); err != nil &&
		err != domain.ErrVersionConflict {
		c.WithFields(log.Fields{"err": err, "offerId": o.Id}).Warn("offerRepo.UpdateWithVersion failed")
	}
	o.Status = expired
	return o
}

func (im *impl) Create(c ctx.Ctx, buyerId domain.UserId, listingId string, amount float64) (*offer.Offer, error) {
	if suspended, err := im.suspension.IsSuspended(c, buyerId); err != nil {
		c.WithFields(log.Fields{"err": err, "buyerId": buyerId}).Error("suspension.IsSuspended failed")
		return nil, err
	} else if suspended {
		return nil, domain.ErrAccountSuspended
	}

	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}
	if l.IsAuction() || !l.AcceptsOffers {
		return nil, domain.ErrInvalidState
	}
	if l.Status != listing.StatusActive {
		return nil, domain.ErrInvalidState
	}
	if l.SellerId == buyerId {
		return nil, domain.ErrForbidden
	}
	if l.MinOfferAmount != nil && amount < *l.MinOfferAmount {
		return nil, domain.ErrBadParamInput
	}
	// an offer at or above asking price should be a purchase instead
	if amount >= l.Price {
		return nil, domain.ErrBadParamInput
	}

	now := time.Now()
	existing, err := im.offerRepo.FindAll(c,
		offer.WithListingId(listingId),
		offer.WithBuyerId(buyerId),
		offer.WithStatuses(offer.StatusPending, offer.StatusCountered),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("offerRepo.FindAll failed")
		return nil, err
	}
	for _, o := range existing {
		if im.expireIfNeeded(c, o, now).Status != offer.StatusExpired {
			// one live offer per buyer per listing
			return nil, domain.ErrConflict
		}
	}

	o := &offer.Offer{
		Id:        uuid.NewString(),
		ListingId: listingId,
		BuyerId:   buyerId,
		SellerId:  l.SellerId,
		Amount:    amount,
		Status:    offer.StatusPending,
		ExpiresAt: now.Add(offer.Lifetime),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := im.offerRepo.Insert(c, o); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("offerRepo.Insert failed")
		return nil, err
	}

	im.notifier.Dispatch(c, &notification.Event{
		UserId:    l.SellerId,
		Type:      notification.EventOfferReceived,
		ListingId: listingId,
		Metadata:  map[string]interface{}{"amount": amount},
		DedupeKey: "offer.received:" + o.Id,
	})
	return o, nil
}

func (im *impl) Respond(c ctx.Ctx, sellerId domain.UserId, offerId string, action offer.RespondAction, counterAmount *float64) (*offer.Offer, error) {
	o, err := im.offerRepo.FindOne(c, offerId)
	if err != nil {
		return nil, err
	}
	if o.SellerId != sellerId {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	o = im.expireIfNeeded(c, o, now)
	if o.Status != offer.StatusPending {
		return nil, domain.ErrInvalidState
	}

	switch action {
	case offer.ActionAccept:
		return im.accept(c, o, o.Amount)

	case offer.ActionReject:
		rejected := offer.StatusRejected
		if err := im.offerRepo.UpdateWithVersion(c, o.Id, o.Version, offer.Patchable{Status: &rejected}); err != nil {
			return nil, err
		}
		im.notifier.Dispatch(c, &notification.Event{
			UserId:    o.BuyerId,
			Type:      notification.EventOfferRejected,
			ListingId: o.ListingId,
			DedupeKey: "offer.rejected:" + o.Id,
		})

	case offer.ActionCounter:
		if counterAmount == nil {
			return nil, domain.ErrBadParamInput
		}
		l, err := im.listingRepo.FindOne(c, o.ListingId)
		if err != nil {
			return nil, err
		}
		if *counterAmount <= o.Amount || *counterAmount > l.Price {
			return nil, domain.ErrBadParamInput
		}
		countered := offer.StatusCountered
		expiresAt := now.Add(offer.Lifetime)
		patchable := offer.Patchable{
			Status:        &countered,
			CounterAmount: counterAmount,
			ExpiresAt:     &expiresAt,
		}
		if err := im.offerRepo.UpdateWithVersion(c, o.Id, o.Version, patchable); err != nil {
			return nil, err
		}
		im.notifier.Dispatch(c, &notification.Event{
			UserId:    o.BuyerId,
			Type:      notification.EventOfferCountered,
			ListingId: o.ListingId,
			Metadata:  map[string]interface{}{"counterAmount": *counterAmount},
			DedupeKey: "offer.countered:" + o.Id,
		})

	default:
		return nil, domain.ErrBadParamInput
	}

	return im.offerRepo.FindOne(c, offerId)
}

func (im *impl) RespondToCounter(c ctx.Ctx, buyerId domain.UserId, offerId string, action offer.RespondAction) (*offer.Offer, error) {
	o, err := im.offerRepo.FindOne(c, offerId)
	if err != nil {
		return nil, err
	}
	if o.BuyerId != buyerId {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	o = im.expireIfNeeded(c, o, now)
	if o.Status != offer.StatusCountered {
		return nil, domain.ErrInvalidState
	}

	switch action {
	case offer.ActionAccept:
		// a counter finalizes at the seller's amount
		return im.accept(c, o, *o.CounterAmount)

	case offer.ActionReject:
		rejected := offer.StatusRejected
		if err := im.offerRepo.UpdateWithVersion(c, o.Id, o.Version, offer.Patchable{Status: &rejected}); err != nil {
			return nil, err
		}
		im.notifier.Dispatch(c, &notification.Event{
			UserId:    o.SellerId,
			Type:      notification.EventOfferRejected,
			ListingId: o.ListingId,
			DedupeKey: "offer.rejected:" + o.Id,
		})

	default:
		// a second counter is not a legal move
		return nil, domain.ErrBadParamInput
	}

	return im.offerRepo.FindOne(c, offerId)
}

// accept settles the listing at the agreed amount. The listing status guard
// is the serialization point; if the item sold in the meantime the accept
// fails with a conflict.
func (im *impl) accept(c ctx.Ctx, o *offer.Offer, amount float64) (*offer.Offer, error) {
	sold := listing.StatusSold
	pending := listing.PaymentStatusPending
	now := time.Now()
	patchable := listing.Patchable{
		Status:        &sold,
		CurrentPrice:  &amount,
		HighBidderId:  &o.BuyerId,
		WinningAmount: &amount,
		PaymentStatus: &pending,
		EndTime:       &now,
	}
	if err := im.listingRepo.TransitionStatus(c, o.ListingId, listing.StatusActive, patchable); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": o.ListingId}).Error("listingRepo.TransitionStatus failed")
		return nil, err
	}

	accepted := offer.StatusAccepted
	if err := im.offerRepo.UpdateWithVersion(c, o.Id, o.Version, offer.Patchable{Status: &accepted}); err != nil {
		return nil, err
	}

	im.rejectRivalOffers(c, o)

	im.notifier.Dispatch(c, &notification.Event{
		UserId:    o.BuyerId,
		Type:      notification.EventOfferAccepted,
		ListingId: o.ListingId,
		Metadata:  map[string]interface{}{"amount": amount},
		DedupeKey: "offer.accepted:" + o.Id,
	})
	im.notifier.Dispatch(c, &notification.Event{
		UserId:    o.SellerId,
		Type:      notification.EventListingSold,
		ListingId: o.ListingId,
		Metadata:  map[string]interface{}{"amount": amount},
		DedupeKey: "listing.sold:" + o.ListingId,
	})

	return im.offerRepo.FindOne(c, o.Id)
}

// rejectRivalOffers closes out the other open offers once one is accepted;
// a fixed-price item has only one unit
func (im *impl) rejectRivalOffers(c ctx.Ctx, accepted *offer.Offer) {
	rivals, err := im.offerRepo.FindAll(c,
		offer.WithListingId(accepted.ListingId),
		offer.WithStatuses(offer.StatusPending, offer.StatusCountered),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": accepted.ListingId}).Error("offerRepo.FindAll failed")
		return
	}

	rejected := offer.StatusRejected
	for _, o := range rivals {
		if o.Id == accepted.Id {
			continue
		}
		if err := im.offerRepo.Update(c, o.Id, offer.Patchable{Status: &rejected}); err != nil {
			c.WithFields(log.Fields{"err": err, "offerId": o.Id}).Error("offerRepo.Update failed")
			continue
		}
		im.notifier.Dispatch(c, &notification.Event{
			UserId:    o.BuyerId,
			Type:      notification.EventOfferRejected,
			ListingId: o.ListingId,
			DedupeKey: "offer.rejected:" + o.Id,
		})
	}
}

func (im *impl) ListByListing(c ctx.Ctx, callerId domain.UserId, listingId string) ([]*offer.Offer, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	optFns := []offer.FindAllOptionsFunc{offer.WithListingId(listingId)}
	if l.SellerId != callerId {
		// non-sellers only see their own offers
		optFns = append(optFns, offer.WithBuyerId(callerId))
	}

	offers, err := im.offerRepo.FindAll(c, optFns...)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("offerRepo.FindAll failed")
		return nil, err
	}

	now := time.Now()
	for i, o := range offers {
		offers[i] = im.expireIfNeeded(c, o, now)
	}
	return offers, nil
}

func (im *impl) ListByBuyer(c ctx.Ctx, buyerId domain.UserId) ([]*offer.Offer, error) {
	offers, err := im.offerRepo.FindAll(c, offer.WithBuyerId(buyerId))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "buyerId": buyerId}).Error("offerRepo.FindAll failed")
		return nil, err
	}

	now := time.Now()
	for i, o := range offers {
		offers[i] = im.expireIfNeeded(c, o, now)
	}
	return offers, nil
}
