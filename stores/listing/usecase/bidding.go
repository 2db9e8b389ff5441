package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/curiomart/goapi/base/backoff"
	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/base/ptr"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/domain/notification"
)

const (
	// placeBidAttempts bounds the compare-and-swap retry loop. Each retry
	// re-reads fresh state and re-resolves, so one logical bid is applied at
	// most once.
	placeBidAttempts = 5

	placeBidBackoffStart = 10 * time.Millisecond
	placeBidBackoffLimit = 200 * time.Millisecond
)

// bidOutcome is the resolved projection to write back onto the listing
type bidOutcome struct {
	price      decimal.Decimal
	leader     domain.UserId
	leaderMax  decimal.Decimal
	boughtNow  bool
	prevLeader *domain.UserId
}

// resolveBid applies the proxy rules against the listing's cached bid state.
// The caller holds no lock; the result is only valid for the version of l it
// was computed from.
func resolveBid(l *listing.Listing, bidderId domain.UserId, maxBid decimal.Decimal) bidOutcome {
	cur := decimal.NewFromFloat(l.CurrentPrice)

	if !l.HasBid() {
		// first bid opens at the starting price
		return bidOutcome{price: cur, leader: bidderId, leaderMax: maxBid}
	}

	prevLeader := *l.HighBidderId
	prevMax := decimal.NewFromFloat(*l.HighBidMax)
	inc := listing.Increment(cur)

	if maxBid.GreaterThan(prevMax) {
		// new leader pays one increment over the displaced maximum, capped by
		// their own ceiling
		price := decimal.Min(maxBid, prevMax.Add(inc))
		return bidOutcome{price: price, leader: bidderId, leaderMax: maxBid, prevLeader: &prevLeader}
	}

	// losing bid; the leader keeps winning but the price rises to the point
	// needed to beat it. Ties break toward the earlier bid.
	price := decimal.Min(maxBid.Add(inc), prevMax)
	return bidOutcome{price: price, leader: prevLeader, leaderMax: prevMax, prevLeader: nil}
}

func (im *impl) PlaceBid(c ctx.Ctx, listingId string, bidderId domain.UserId, maxBid float64) (*listing.PlaceBidResult, error) {
	if err := im.ensureNotSuspended(c, bidderId); err != nil {
		return nil, err
	}

	bo := backoff.NewExponential(placeBidBackoffStart, placeBidBackoffLimit)
	for attempt := 0; attempt < placeBidAttempts; attempt++ {
		res, err := im.placeBidOnce(c, listingId, bidderId, maxBid)
		if err == domain.ErrVersionConflict {
			// another bid won the write race; re-read and re-resolve
			if berr := bo.Backoff(c); berr != nil {
				return nil, berr
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	}
	c.WithFields(log.Fields{"listingId": listingId, "bidderId": bidderId}).Warn("placeBid exhausted retries")
	return nil, domain.ErrVersionConflict
}

func (im *impl) placeBidOnce(c ctx.Ctx, listingId string, bidderId domain.UserId, maxBid float64) (*listing.PlaceBidResult, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !l.IsAuction() {
		return nil, domain.ErrInvalidState
	}
	if l.SellerId == bidderId {
		return nil, domain.ErrForbidden
	}
	if l.Status != listing.StatusActive || !now.Before(l.EndTime) {
		return nil, domain.ErrInvalidState
	}

	// self-raise without a higher rival is a no-op, not an error
	if l.HighBidderId != nil && *l.HighBidderId == bidderId {
		return &listing.PlaceBidResult{Listing: l, Accepted: false}, nil
	}

	bid := decimal.NewFromFloat(maxBid)
	required := listing.MinimumNextBid(l)
	if bid.LessThan(required) {
		min, _ := required.Float64()
		return nil, &domain.BidTooLowError{RequiredMinimum: min}
	}

	// buy-it-now short-circuits the auction at the configured price
	if l.BuyItNowPrice != nil && !bid.LessThan(decimal.NewFromFloat(*l.BuyItNowPrice)) {
		return im.buyItNow(c, l, bidderId, maxBid, now)
	}

	outcome := resolveBid(l, bidderId, bid)

	price, _ := outcome.price.Float64()
	leaderMax, _ := outcome.leaderMax.Float64()
	patchable := listing.Patchable{
		CurrentPrice: &price,
		HighBidderId: &outcome.leader,
		HighBidMax:   &leaderMax,
		BidCount:     ptr.Int(l.BidCount + 1),
	}
	// the projection and the bid log commit together; ties break on the log,
	// so an accepted bid must never be missing from it
	if err := im.q.RunWithTransaction(c, func(sc ctx.Ctx) error {
		if err := im.listingRepo.UpdateWithVersion(sc, l.Id, l.Version, patchable); err != nil {
			return err
		}
		return im.bidRepo.Insert(sc, newBidRow(l, bidderId, maxBid, now))
	}); err != nil {
		return nil, err
	}

	im.notifyOutbid(c, l, outcome, bidderId)

	updated, err := im.listingRepo.FindOne(c, l.Id)
	if err != nil {
		return nil, err
	}
	return &listing.PlaceBidResult{Listing: updated, Accepted: true}, nil
}

func (im *impl) buyItNow(c ctx.Ctx, l *listing.Listing, bidderId domain.UserId, maxBid float64, now time.Time) (*listing.PlaceBidResult, error) {
	sold := listing.StatusSold
	pending := listing.PaymentStatusPending
	patchable := listing.Patchable{
		Status:        &sold,
		CurrentPrice:  l.BuyItNowPrice,
		HighBidderId:  &bidderId,
		HighBidMax:    ptr.Float64(maxBid),
		WinningAmount: l.BuyItNowPrice,
		BidCount:      ptr.Int(l.BidCount + 1),
		PaymentStatus: &pending,
		EndTime:       &now,
	}
	if err := im.q.RunWithTransaction(c, func(sc ctx.Ctx) error {
		if err := im.listingRepo.UpdateWithVersion(sc, l.Id, l.Version, patchable); err != nil {
			return err
		}
		return im.bidRepo.Insert(sc, newBidRow(l, bidderId, maxBid, now))
	}); err != nil {
		return nil, err
	}

	im.notifier.Dispatch(c, &notification.Event{
		UserId:    l.SellerId,
		Type:      notification.EventListingSold,
		ListingId: l.Id,
		Metadata:  map[string]interface{}{"amount": *l.BuyItNowPrice},
		DedupeKey: "listing.sold:" + l.Id,
	})
	im.notifier.Dispatch(c, &notification.Event{
		UserId:    bidderId,
		Type:      notification.EventAuctionWon,
		ListingId: l.Id,
		Metadata:  map[string]interface{}{"amount": *l.BuyItNowPrice},
		DedupeKey: "auction.won:" + l.Id,
	})

	updated, err := im.listingRepo.FindOne(c, l.Id)
	if err != nil {
		return nil, err
	}
	return &listing.PlaceBidResult{Listing: updated, Accepted: true}, nil
}

// newBidRow is the immutable bid log row for the bid l is about to accept
func newBidRow(l *listing.Listing, bidderId domain.UserId, maxBid float64, now time.Time) *listing.Bid {
	return &listing.Bid{
		Id:        uuid.NewString(),
		ListingId: l.Id,
		BidderId:  bidderId,
		MaxBid:    maxBid,
		Seq:       l.BidCount + 1,
		PlacedAt:  now,
		CreatedAt: now,
	}
}

func (im *impl) notifyOutbid(c ctx.Ctx, l *listing.Listing, outcome bidOutcome, bidderId domain.UserId) {
	if outcome.prevLeader == nil {
		return
	}
	im.notifier.Dispatch(c, &notification.Event{
		UserId:    *outcome.prevLeader,
		Type:      notification.EventOutbid,
		ListingId: l.Id,
		Metadata:  map[string]interface{}{"currentPrice": outcome.price.InexactFloat64()},
		DedupeKey: fmt.Sprintf("bid.outbid:%s:%d", l.Id, l.BidCount+1),
	})
}

func (im *impl) GetBidHistory(c ctx.Ctx, listingId string, viewerId domain.UserId) ([]*listing.BidHistoryEntry, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	bids, err := im.bidRepo.FindAll(c, listing.BidWithListingId(listingId))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("bidRepo.FindAll failed")
		return nil, err
	}

	// stable per-listing aliases in first-seen order
	aliases := map[domain.UserId]string{}
	entries := make([]*listing.BidHistoryEntry, 0, len(bids))
	for _, b := range bids {
		alias, ok := aliases[b.BidderId]
		if !ok {
			alias = fmt.Sprintf("Bidder %d", len(aliases)+1)
			aliases[b.BidderId] = alias
		}

		entry := &listing.BidHistoryEntry{
			Bidder:   alias,
			PlacedAt: b.PlacedAt,
			Amount:   b.MaxBid,
		}
		if b.BidderId == viewerId {
			entry.IsViewer = true
		} else if l.HighBidderId != nil && *l.HighBidderId == b.BidderId && l.HighBidMax != nil && b.MaxBid == *l.HighBidMax {
			// the live leader's ceiling stays hidden; show the visible price
			entry.Amount = l.CurrentPrice
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
