package domain

import "github.com/curiomart/goapi/base/ctx"

// HealthCheckRepo probes the backing stores
type HealthCheckRepo interface {
	CheckMongo(ctx ctx.Ctx) error
	CheckRedis(ctx ctx.Ctx) error
}

type HealthCheckUsecase interface {
	Check(ctx ctx.Ctx) error
}
