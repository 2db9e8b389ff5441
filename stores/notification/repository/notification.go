package repository

import (
	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/notification"
	"github.com/curiomart/goapi/service/query"
)

type notificationImpl struct {
	q query.Mongo
}

func New(q query.Mongo) notification.Repo {
	return &notificationImpl{q}
}

func (im *notificationImpl) Insert(c ctx.Ctx, e *notification.Event) error {
	// dedupeKey carries a unique index; a replayed event is not an error
	if err := im.q.Insert(c, domain.TableNotificationEvents, e); err == query.ErrDuplicateKey {
		return nil
	} else if err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *notificationImpl) FindAll(c ctx.Ctx, optFns ...notification.FindAllOptionsFunc) ([]*notification.Event, error) {
	opts, err := notification.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("notification.GetFindAllOptions failed")
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

	res := []*notification.Event{}
	if err := im.q.Search(c, domain.TableNotificationEvents, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}
