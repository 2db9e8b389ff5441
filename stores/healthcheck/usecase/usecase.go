package usecase

import (
	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

type impl struct {
	repo domain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo domain.HealthCheckRepo) domain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(context ctx.Ctx) error {
	if err := im.repo.CheckMongo(context); err != nil {
		return err
	}
	return im.repo.CheckRedis(context)
}
