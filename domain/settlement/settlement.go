package settlement

import (
	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

// ListingError is one listing the closer could not settle on this pass. The
// listing stays eligible and is retried on the next sweep.
type ListingError struct {
	ListingId string `json:"listingId"`
	Message   string `json:"message"`
}

// Result summarizes one closer sweep
type Result struct {
	Activated int            `json:"activated"`
	Processed int            `json:"processed"`
	Skipped   int            `json:"skipped"`
	Errors    []ListingError `json:"errors"`
}

type UseCase interface {
	// ProcessEndedAuctions opens every scheduled listing whose start time has
	// passed, then settles every active auction whose end time has passed.
	// Safe to run concurrently with itself and with live bidding.
	ProcessEndedAuctions(ctx ctx.Ctx) (*Result, error)
	// MarkPaid records payment for a sold listing and opens the rating window
	MarkPaid(ctx ctx.Ctx, listingId string, payerId domain.UserId) error
}
