package account

import (
	"time"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

type Account struct {
	UserId          domain.UserId `json:"userId" bson:"userId"`
	DisplayName     string        `json:"displayName" bson:"displayName"`
	Suspended       bool          `json:"suspended" bson:"suspended"`
	SuspendedReason string        `json:"suspendedReason,omitempty" bson:"suspendedReason,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type Patchable struct {
	DisplayName     *string `bson:"displayName,omitempty"`
	Suspended       *bool   `bson:"suspended,omitempty"`
	SuspendedReason *string `bson:"suspendedReason,omitempty"`
}

type Repo interface {
	FindOne(ctx ctx.Ctx, userId domain.UserId) (*Account, error)
	Upsert(ctx ctx.Ctx, a *Account) error
	Update(ctx ctx.Ctx, userId domain.UserId, patchable Patchable) error
}

// SuspensionChecker is the narrow dependency the listing and offer usecases
// take; suspended accounts may not list, bid, or make offers
type SuspensionChecker interface {
	IsSuspended(ctx ctx.Ctx, userId domain.UserId) (bool, error)
}

type UseCase interface {
	SuspensionChecker
	Get(ctx ctx.Ctx, userId domain.UserId) (*Account, error)
	Register(ctx ctx.Ctx, userId domain.UserId, displayName string) (*Account, error)
	Suspend(ctx ctx.Ctx, userId domain.UserId, reason string) error
	Reinstate(ctx ctx.Ctx, userId domain.UserId) error
}
