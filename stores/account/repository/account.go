package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/database/mongoclient"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/account"
	"github.com/curiomart/goapi/service/query"
)

type accountImpl struct {
	q query.Mongo
}

func New(q query.Mongo) account.Repo {
	return &accountImpl{q}
}

func (im *accountImpl) FindOne(c ctx.Ctx, userId domain.UserId) (*account.Account, error) {
	res := &account.Account{}
	if err := im.q.FindOne(c, domain.TableAccounts, bson.M{"userId": userId}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *accountImpl) Upsert(c ctx.Ctx, a *account.Account) error {
	if err := im.q.Upsert(c, domain.TableAccounts, bson.M{"userId": a.UserId}, a); err != nil {
		c.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *accountImpl) Update(c ctx.Ctx, userId domain.UserId, patchable account.Patchable) error {
	set, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}
	set["updatedAt"] = time.Now()

	if err := im.q.Patch(c, domain.TableAccounts, bson.M{"userId": userId}, set); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}
