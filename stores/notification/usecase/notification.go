package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/base/metrics"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/notification"
)

type NotificationUseCaseCfg struct {
	NotificationRepo notification.Repo
}

type impl struct {
	notificationRepo notification.Repo
	met              metrics.Service
}

func New(cfg *NotificationUseCaseCfg) notification.UseCase {
	return &impl{
		notificationRepo: cfg.NotificationRepo,
		met:              metrics.New("notification"),
	}
}

// Dispatch persists the event. Failures are logged and counted but never
// surface to the triggering operation.
func (im *impl) Dispatch(c ctx.Ctx, e *notification.Event) {
	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.DedupeKey == "" {
		e.DedupeKey = e.Id
	}

	if err := im.notificationRepo.Insert(c, e); err != nil {
		im.met.BumpSum("dispatch.err", 1, "type", string(e.Type))
		c.WithFields(log.Fields{
			"err":       err,
			"type":      e.Type,
			"userId":    e.UserId,
			"listingId": e.ListingId,
		}).Error("notificationRepo.Insert failed")
		return
	}
	im.met.BumpSum("dispatch", 1, "type", string(e.Type))
}

func (im *impl) ListByUser(c ctx.Ctx, userId domain.UserId, offset, limit int32) ([]*notification.Event, error) {
	res, err := im.notificationRepo.FindAll(c,
		notification.WithUserId(userId),
		notification.WithPagination(offset, limit),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "userId": userId}).Error("notificationRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}
