package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/service/query"
)

type listingImpl struct {
	q query.Mongo
}

func NewListing(q query.Mongo) listing.Repo {
	return &listingImpl{q}
}

func buildListingQuery(opts listing.FindAllOptions) (bson.M, error) {
	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		return nil, err
	}

	if len(opts.Statuses) > 0 {
		qry["status"] = bson.M{"$in": opts.Statuses}
	}
	if opts.HasBuyItNow != nil {
		qry["buyItNowPrice"] = bson.M{"$exists": *opts.HasBuyItNow}
	}
	if opts.PriceGTE != nil || opts.PriceLTE != nil {
		rng := bson.M{}
		if opts.PriceGTE != nil {
			rng["$gte"] = *opts.PriceGTE
		}
		if opts.PriceLTE != nil {
			rng["$lte"] = *opts.PriceLTE
		}
		qry["currentPrice"] = rng
	}
	if opts.EndTimeLTE != nil {
		qry["endTime"] = bson.M{"$lte": *opts.EndTimeLTE}
	}
	if opts.StartTimeLTE != nil {
		qry["startTime"] = bson.M{"$lte": *opts.StartTimeLTE}
	}

	return qry, nil
}

func sortFieldOf(sort string) string {
	switch sort {
	case listing.SortEndingSoonest:
		return "endTime"
	case listing.SortPriceLowHigh:
		return "currentPrice"
	case listing.SortPriceHighLow:
		return "-currentPrice"
	case listing.SortNewest:
		return "-createdAt"
	default:
		return "-createdAt"
	}
}

func (im *listingImpl) FindAll(c ctx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetFindAllOptions failed")
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
		sort = sortFieldOf(*opts.Sort)
	}

	qry, err := buildListingQuery(opts)
	if err != nil {
		c.WithField("err", err).Error("buildListingQuery failed")
		return nil, err
	}

	res := []*listing.Listing{}
	if err := im.q.Search(c, domain.TableListings, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *listingImpl) Count(c ctx.Ctx, optFns ...listing.FindAllOptionsFunc) (int, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetFindAllOptions failed")
		return 0, err
	}

	qry, err := buildListingQuery(opts)
	if err != nil {
		c.WithField("err", err).Error("buildListingQuery failed")
		return 0, err
	}

	count, err := im.q.Count(c, domain.TableListings, qry)
	if err != nil {
		c.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return count, nil
}

func (im *listingImpl) FindOne(c ctx.Ctx, listingId string) (*listing.Listing, error) {
	res := &listing.Listing{}
	if err := im.q.FindOne(c, domain.TableListings, bson.M{"id": listingId}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *listingImpl) Insert(c ctx.Ctx, l *listing.Listing) error {
	if err := im.q.Insert(c, domain.TableListings, l); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *listingImpl) patch(c ctx.Ctx, selector bson.M, patchable listing.Patchable) error {
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
	return im.q.CustomPatch(c, domain.TableListings, selector, update, false)
}

func (im *listingImpl) Update(c ctx.Ctx, listingId string, patchable listing.Patchable) error {
	if err := im.patch(c, bson.M{"id": listingId}, patchable); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("patch failed")
		return err
	}
	return nil
}

func (im *listingImpl) UpdateWithVersion(c ctx.Ctx, listingId string, expectedVersion int64, patchable listing.Patchable) error {
	selector := bson.M{"id": listingId, "version": expectedVersion}
	if err := im.patch(c, selector, patchable); err == query.ErrNotFound {
		return im.classifyConflict(c, listingId)
	} else if err != nil {
		c.WithField("err", err).Error("patch failed")
		return err
	}
	return nil
}

func (im *listingImpl) TransitionStatus(c ctx.Ctx, listingId string, from listing.Status, patchable listing.Patchable) error {
	selector := bson.M{"id": listingId, "status": from}
	if err := im.patch(c, selector, patchable); err == query.ErrNotFound {
		return im.classifyConflict(c, listingId)
	} else if err != nil {
		c.WithField("err", err).Error("patch failed")
		return err
	}
	return nil
}

// classifyConflict separates "listing is gone" from "guard no longer holds"
func (im *listingImpl) classifyConflict(c ctx.Ctx, listingId string) error {
	if _, err := im.FindOne(c, listingId); err == domain.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		return err
	}
	return domain.ErrVersionConflict
}
