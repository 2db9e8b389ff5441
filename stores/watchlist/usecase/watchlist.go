package usecase

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/domain/watchlist"
)

type WatchlistUseCaseCfg struct {
	WatchlistRepo watchlist.Repo
	ListingRepo   listing.Repo
}

type impl struct {
	watchlistRepo watchlist.Repo
	listingRepo   listing.Repo
}

func New(cfg *WatchlistUseCaseCfg) watchlist.UseCase {
	return &impl{
		watchlistRepo: cfg.WatchlistRepo,
		listingRepo:   cfg.ListingRepo,
	}
}

func (im *impl) Add(c ctx.Ctx, userId domain.UserId, listingId string) error {
	if _, err := im.listingRepo.FindOne(c, listingId); err != nil {
		return err
	}

	e := &watchlist.Entry{
		UserId:    userId,
		ListingId: listingId,
		CreatedAt: time.Now(),
	}
	if err := im.watchlistRepo.Upsert(c, e); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("watchlistRepo.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) Remove(c ctx.Ctx, userId domain.UserId, listingId string) error {
	return im.watchlistRepo.Remove(c, userId, listingId)
}

func (im *impl) List(c ctx.Ctx, userId domain.UserId, offset, limit int32) ([]*listing.Listing, error) {
	entries, err := im.watchlistRepo.FindAll(c,
		watchlist.WithUserId(userId),
		watchlist.WithPagination(offset, limit),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "userId": userId}).Error("watchlistRepo.FindAll failed")
		return nil, err
	}

	listings := make([]*listing.Listing, 0, len(entries))
	for _, e := range entries {
		l, err := im.listingRepo.FindOne(c, e.ListingId)
		if err == domain.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}
