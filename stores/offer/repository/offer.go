package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/offer"
	"github.com/curiomart/goapi/service/query"
)

type offerImpl struct {
	q query.Mongo
}

func New(q query.Mongo) offer.Repo {
	return &offerImpl{q}
}

func (im *offerImpl) Insert(c ctx.Ctx, o *offer.Offer) error {
	if err := im.q.Insert(c, domain.TableOffers, o); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *offerImpl) FindOne(c ctx.Ctx, offerId string) (*offer.Offer, error) {
	res := &offer.Offer{}
	if err := im.q.FindOne(c, domain.TableOffers, bson.M{"id": offerId}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *offerImpl) FindAll(c ctx.Ctx, optFns ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	opts, err := offer.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("offer.GetFindAllOptions failed")
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

	sort := "-createdAt"
	if opts.Sort != nil {
		sort = *opts.Sort
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if len(opts.Statuses) > 0 {
		qry["status"] = bson.M{"$in": opts.Statuses}
	}

	res := []*offer.Offer{}
	if err := im.q.Search(c, domain.TableOffers, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *offerImpl) patch(c ctx.Ctx, selector bson.M, patchable offer.Patchable) error {
	set, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}
	set["updatedAt"] = time.Now()

	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	return im.q.CustomPatch(c, domain.TableOffers, selector, update, false)
}

func (im *offerImpl) Update(c ctx.Ctx, offerId string, patchable offer.Patchable) error {
	if err := im.patch(c, bson.M{"id": offerId}, patchable); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("patch failed")
		return err
	}
	return nil
}

func (im *offerImpl) UpdateWithVersion(c ctx.Ctx, offerId string, expectedVersion int64, patchable offer.Patchable) error {
	selector := bson.M{"id": offerId, "version": expectedVersion}
	if err := im.patch(c, selector, patchable); err == query.ErrNotFound {
		if _, ferr := im.FindOne(c, offerId); ferr == domain.ErrNotFound {
			return domain.ErrNotFound
		} else if ferr != nil {
			return ferr
		}
		return domain.ErrVersionConflict
	} else if err != nil {
		c.WithField("err", err).Error("patch failed")
		return err
	}
	return nil
}
