package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/base/metrics"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/domain/notification"
	"github.com/curiomart/goapi/domain/rating"
	"github.com/curiomart/goapi/domain/settlement"
	"github.com/curiomart/goapi/domain/watchlist"
)

const defaultWorkers = 8

type SettlementUseCaseCfg struct {
	ListingRepo   listing.Repo
	WatchlistRepo watchlist.Repo
	RatingUC      rating.UseCase
	Notifier      notification.Dispatcher
	Payment       domain.PaymentProcessor
	Workers       int
}

type impl struct {
	listingRepo   listing.Repo
	watchlistRepo watchlist.Repo
	ratingUC      rating.UseCase
	notifier      notification.Dispatcher
	payment       domain.PaymentProcessor
	workers       int
	met           metrics.Service
}

func New(cfg *SettlementUseCaseCfg) settlement.UseCase {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &impl{
		listingRepo:   cfg.ListingRepo,
		watchlistRepo: cfg.WatchlistRepo,
		ratingUC:      cfg.RatingUC,
		notifier:      cfg.Notifier,
		payment:       cfg.Payment,
		workers:       workers,
		met:           metrics.New("settlement"),
	}
}

type closeResult struct {
	listingId string
	skipped   bool
	err       error
}

func (im *impl) ProcessEndedAuctions(c ctx.Ctx) (*settlement.Result, error) {
	defer im.met.BumpTime("process.time").End()
	now := time.Now()

	res := &settlement.Result{}
	im.openScheduled(c, now, res)

	// StatusEnded rows are strays from a previous run that crashed between
	// the guard and the terminal write; they are settled again here, relying
	// on notification dedupe to avoid double sends.
	candidates, err := im.listingRepo.FindAll(c,
		listing.WithType(listing.TypeAuction),
		listing.WithStatuses(listing.StatusActive, listing.StatusEnded),
		listing.WithEndTimeLTE(now),
	)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.FindAll failed")
		return nil, err
	}

	if len(candidates) == 0 {
		return res, nil
	}

	b := goroutines.NewBatch(im.workers, goroutines.WithBatchSize(len(candidates)))
	defer b.Close()
	for i := 0; i < len(candidates); i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			return im.closeOne(c, candidates[idx]), nil
		})
	}
	b.QueueComplete()

	for ret := range b.Results() {
		cr := ret.Value().(closeResult)
		switch {
		case cr.err != nil:
			res.Errors = append(res.Errors, settlement.ListingError{ListingId: cr.listingId, Message: cr.err.Error()})
		case cr.skipped:
			res.Skipped++
		default:
			res.Processed++
		}
	}

	im.met.BumpSum("process.closed", float64(res.Processed))
	im.met.BumpSum("process.err", float64(len(res.Errors)))
	c.WithFields(log.Fields{
		"activated": res.Activated,
		"processed": res.Processed,
		"skipped":   res.Skipped,
		"errors":    len(res.Errors),
	}).Info("closer pass finished")
	return res, nil
}

// openScheduled flips due scheduled listings to active so bidding can start.
// A listing whose whole window already elapsed becomes a candidate for the
// close pass right below.
func (im *impl) openScheduled(c ctx.Ctx, now time.Time, res *settlement.Result) {
	due, err := im.listingRepo.FindAll(c,
		listing.WithStatuses(listing.StatusScheduled),
		listing.WithStartTimeLTE(now),
	)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.FindAll failed")
		return
	}

	active := listing.StatusActive
	for _, l := range due {
		err := im.listingRepo.TransitionStatus(c, l.Id, listing.StatusScheduled, listing.Patchable{Status: &active})
		if err == domain.ErrVersionConflict {
			res.Skipped++
			continue
		}
		if err != nil {
			c.WithFields(log.Fields{"err": err, "listingId": l.Id}).Error("listingRepo.TransitionStatus failed")
			res.Errors = append(res.Errors, settlement.ListingError{ListingId: l.Id, Message: err.Error()})
			continue
		}
		res.Activated++
	}
	if res.Activated > 0 {
		im.met.BumpSum("process.activated", float64(res.Activated))
	}
}

// closeOne settles a single past-due auction. Any failure leaves the listing
// eligible for the next sweep.
func (im *impl) closeOne(c ctx.Ctx, l *listing.Listing) closeResult {
	if l.Status == listing.StatusActive {
		ended := listing.StatusEnded
		err := im.listingRepo.TransitionStatus(c, l.Id, listing.StatusActive, listing.Patchable{Status: &ended})
		if err == domain.ErrVersionConflict {
			// another closer run got there first; expected, not a fault
			return closeResult{listingId: l.Id, skipped: true}
		}
		if err != nil {
			c.WithFields(log.Fields{"err": err, "listingId": l.Id}).Error("listingRepo.TransitionStatus failed")
			return closeResult{listingId: l.Id, err: err}
		}
	}

	// the guard bumped version, so no late bid can land after this read
	fresh, err := im.listingRepo.FindOne(c, l.Id)
	if err != nil {
		return closeResult{listingId: l.Id, err: err}
	}
	if fresh.Status != listing.StatusEnded {
		return closeResult{listingId: l.Id, skipped: true}
	}

	if fresh.HighBidderId != nil {
		err = im.settleSold(c, fresh)
	} else {
		err = im.settleUnsold(c, fresh)
	}
	if err == domain.ErrVersionConflict {
		// an overlapping sweep wrote the terminal status first
		return closeResult{listingId: l.Id, skipped: true}
	}
	if err != nil {
		return closeResult{listingId: l.Id, err: err}
	}

	im.notifyWatchers(c, fresh)
	return closeResult{listingId: l.Id}
}

func (im *impl) settleSold(c ctx.Ctx, l *listing.Listing) error {
	sold := listing.StatusSold
	pending := listing.PaymentStatusPending
	patchable := listing.Patchable{
		Status:        &sold,
		WinningAmount: &l.CurrentPrice,
		PaymentStatus: &pending,
	}
	if err := im.listingRepo.TransitionStatus(c, l.Id, listing.StatusEnded, patchable); err != nil {
		if err != domain.ErrVersionConflict {
			c.WithFields(log.Fields{"err": err, "listingId": l.Id}).Error("listingRepo.TransitionStatus failed")
		}
		return err
	}

	winner := *l.HighBidderId
	meta := map[string]interface{}{"amount": l.CurrentPrice}
	if score, err := im.ratingUC.GetSellerScore(c, l.SellerId); err == nil {
		meta["sellerScore"] = score.PositivePercent
	}

	// checkout failure must not reopen the auction; the winner can still pay
	// from the listing page
	checkout, err := im.payment.CreateCheckout(c, &domain.CheckoutRequest{
		ListingId:    l.Id,
		PayerId:      winner,
		Amount:       l.CurrentPrice,
		ShippingCost: l.ShippingCost,
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": l.Id}).Error("payment.CreateCheckout failed")
	} else {
		meta["checkoutUrl"] = checkout.Url
	}

	im.notifier.Dispatch(c, &notification.Event{
		UserId:    winner,
		Type:      notification.EventAuctionWon,
		ListingId: l.Id,
		Metadata:  meta,
		DedupeKey: "auction.won:" + l.Id,
	})
	im.notifier.Dispatch(c, &notification.Event{
		UserId:    l.SellerId,
		Type:      notification.EventListingSold,
		ListingId: l.Id,
		Metadata:  map[string]interface{}{"amount": l.CurrentPrice},
		DedupeKey: "listing.sold:" + l.Id,
	})
	return nil
}

func (im *impl) settleUnsold(c ctx.Ctx, l *listing.Listing) error {
	unsold := listing.StatusUnsold
	if err := im.listingRepo.TransitionStatus(c, l.Id, listing.StatusEnded, listing.Patchable{Status: &unsold}); err != nil {
		if err != domain.ErrVersionConflict {
			c.WithFields(log.Fields{"err": err, "listingId": l.Id}).Error("listingRepo.TransitionStatus failed")
		}
		return err
	}

	im.notifier.Dispatch(c, &notification.Event{
		UserId:    l.SellerId,
		Type:      notification.EventAuctionUnsold,
		ListingId: l.Id,
		DedupeKey: "auction.unsold:" + l.Id,
	})
	return nil
}

func (im *impl) notifyWatchers(c ctx.Ctx, l *listing.Listing) {
	entries, err := im.watchlistRepo.FindAll(c, watchlist.WithListingId(l.Id))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": l.Id}).Error("watchlistRepo.FindAll failed")
		return
	}
	for _, e := range entries {
		im.notifier.Dispatch(c, &notification.Event{
			UserId:    e.UserId,
			Type:      notification.EventWatchedEnded,
			ListingId: l.Id,
			DedupeKey: "watchlist.listing_ended:" + l.Id + ":" + e.UserId.String(),
		})
	}
}

func (im *impl) MarkPaid(c ctx.Ctx, listingId string, payerId domain.UserId) error {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return err
	}
	if l.Status != listing.StatusSold {
		return domain.ErrInvalidState
	}
	if l.HighBidderId == nil || *l.HighBidderId != payerId {
		return domain.ErrForbidden
	}
	if l.PaymentStatus == listing.PaymentStatusPaid {
		// idempotent; the provider may deliver the webhook more than once
		return nil
	}

	paid := listing.PaymentStatusPaid
	if err := im.listingRepo.UpdateWithVersion(c, listingId, l.Version, listing.Patchable{PaymentStatus: &paid}); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("listingRepo.UpdateWithVersion failed")
		return err
	}

	im.notifier.Dispatch(c, &notification.Event{
		UserId:    l.SellerId,
		Type:      notification.EventPaymentReceived,
		ListingId: listingId,
		DedupeKey: "payment.received:" + listingId,
	})
	return nil
}
