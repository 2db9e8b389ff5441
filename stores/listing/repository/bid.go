package repository

import (
	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/service/query"
)

type bidImpl struct {
	q query.Mongo
}

func NewBid(q query.Mongo) listing.BidRepo {
	return &bidImpl{q}
}

func (im *bidImpl) Insert(c ctx.Ctx, b *listing.Bid) error {
	if err := im.q.Insert(c, domain.TableBids, b); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *bidImpl) FindAll(c ctx.Ctx, optFns ...listing.BidFindAllOptionsFunc) ([]*listing.Bid, error) {
	opts, err := listing.GetBidFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetBidFindAllOptions failed")
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

	// seq is the per-listing insertion order
	sort := "seq"
	if opts.Sort != nil {
		sort = *opts.Sort
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := []*listing.Bid{}
	if err := im.q.Search(c, domain.TableBids, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *bidImpl) Count(c ctx.Ctx, optFns ...listing.BidFindAllOptionsFunc) (int, error) {
	opts, err := listing.GetBidFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetBidFindAllOptions failed")
		return 0, err
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	count, err := im.q.Count(c, domain.TableBids, qry)
	if err != nil {
		c.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return count, nil
}
