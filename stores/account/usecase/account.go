package usecase

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/base/ptr"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/account"
)

type AccountUseCaseCfg struct {
	AccountRepo account.Repo
}

type impl struct {
	accountRepo account.Repo
}

func New(cfg *AccountUseCaseCfg) account.UseCase {
	return &impl{
		accountRepo: cfg.AccountRepo,
	}
}

func (im *impl) Get(c ctx.Ctx, userId domain.UserId) (*account.Account, error) {
	return im.accountRepo.FindOne(c, userId)
}

func (im *impl) Register(c ctx.Ctx, userId domain.UserId, displayName string) (*account.Account, error) {
	if userId.IsEmpty() {
		return nil, domain.ErrBadParamInput
	}

	now := time.Now()
	a := &account.Account{
		UserId:      userId,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, err := im.accountRepo.FindOne(c, userId); err == nil {
		// keep the original creation time on repeat registration
		a.CreatedAt = existing.CreatedAt
		a.Suspended = existing.Suspended
		a.SuspendedReason = existing.SuspendedReason
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	if err := im.accountRepo.Upsert(c, a); err != nil {
		c.WithFields(log.Fields{"err": err, "userId": userId}).Error("accountRepo.Upsert failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) Suspend(c ctx.Ctx, userId domain.UserId, reason string) error {
	patchable := account.Patchable{
		Suspended:       ptr.Bool(true),
		SuspendedReason: &reason,
	}
	if err := im.accountRepo.Update(c, userId, patchable); err != nil {
		c.WithFields(log.Fields{"err": err, "userId": userId}).Error("accountRepo.Update failed")
		return err
	}
	return nil
}

func (im *impl) Reinstate(c ctx.Ctx, userId domain.UserId) error {
	patchable := account.Patchable{
		Suspended:       ptr.Bool(false),
		SuspendedReason: ptr.String(""),
	}
	if err := im.accountRepo.Update(c, userId, patchable); err != nil {
		c.WithFields(log.Fields{"err": err, "userId": userId}).Error("accountRepo.Update failed")
		return err
	}
	return nil
}

func (im *impl) IsSuspended(c ctx.Ctx, userId domain.UserId) (bool, error) {
	a, err := im.accountRepo.FindOne(c, userId)
	if err == domain.ErrNotFound {
		// unknown users are not suspended; accounts are created lazily
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.Suspended, nil
}
