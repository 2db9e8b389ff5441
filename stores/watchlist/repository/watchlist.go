package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/watchlist"
	"github.com/curiomart/goapi/service/query"
)

type watchlistImpl struct {
	q query.Mongo
}

func New(q query.Mongo) watchlist.Repo {
	return &watchlistImpl{q}
}

func (im *watchlistImpl) Upsert(c ctx.Ctx, e *watchlist.Entry) error {
	selector := bson.M{"userId": e.UserId, "listingId": e.ListingId}
	if err := im.q.Upsert(c, domain.TableWatchlistEntries, selector, e); err != nil {
		c.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *watchlistImpl) Remove(c ctx.Ctx, userId domain.UserId, listingId string) error {
	selector := bson.M{"userId": userId, "listingId": listingId}
	if err := im.q.Remove(c, domain.TableWatchlistEntries, selector); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Remove failed")
		return err
	}
	return nil
}

func (im *watchlistImpl) FindAll(c ctx.Ctx, optFns ...watchlist.FindAllOptionsFunc) ([]*watchlist.Entry, error) {
	opts, err := watchlist.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("watchlist.GetFindAllOptions failed")
		return nil, err
	}

	offset := int(0)
	limit := int(0)
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := []*watchlist.Entry{}
	if err := im.q.Search(c, domain.TableWatchlistEntries, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *watchlistImpl) Count(c ctx.Ctx, optFns ...watchlist.FindAllOptionsFunc) (int, error) {
	opts, err := watchlist.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("watchlist.GetFindAllOptions failed")
		return 0, err
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	count, err := im.q.Count(c, domain.TableWatchlistEntries, qry)
	if err != nil {
		c.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return count, nil
}
