package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/rating"
	"github.com/curiomart/goapi/service/query"
)

type ratingImpl struct {
	q query.Mongo
}

func New(q query.Mongo) rating.Repo {
	return &ratingImpl{q}
}

func (im *ratingImpl) Insert(c ctx.Ctx, r *rating.Rating) error {
	if err := im.q.Insert(c, domain.TableRatings, r); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *ratingImpl) FindOneByListingAndRater(c ctx.Ctx, listingId string, raterId domain.UserId) (*rating.Rating, error) {
	res := &rating.Rating{}
	selector := bson.M{"listingId": listingId, "raterId": raterId}
	if err := im.q.FindOne(c, domain.TableRatings, selector, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *ratingImpl) FindAll(c ctx.Ctx, optFns ...rating.FindAllOptionsFunc) ([]*rating.Rating, error) {
	opts, err := rating.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("rating.GetFindAllOptions failed")
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

	res := []*rating.Rating{}
	if err := im.q.Search(c, domain.TableRatings, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *ratingImpl) Count(c ctx.Ctx, optFns ...rating.FindAllOptionsFunc) (int, error) {
	opts, err := rating.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("rating.GetFindAllOptions failed")
		return 0, err
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	count, err := im.q.Count(c, domain.TableRatings, qry)
	if err != nil {
		c.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return count, nil
}
