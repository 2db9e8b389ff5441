package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/settlement"
	authMiddleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	settlement settlement.UseCase
}

// New will initialize the settlement endpoints
func New(e *echo.Echo, su settlement.UseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		settlement: su,
	}
	g := e.Group("/settlement")
	g.POST("/listings/:listingId/paid", h.markPaid, am.Auth())

	// admin
	g.POST("/run", h.run, am.Auth(), am.IsAdmin())
}

// markPaid records that the winning buyer completed checkout
func (h *handler) markPaid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	payerId := c.Get("userId").(domain.UserId)

	if err := h.settlement.MarkPaid(ctx, c.Param("listingId"), payerId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

// run triggers a settlement sweep outside the scheduled cadence
func (h *handler) run(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.settlement.ProcessEndedAuctions(ctx); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
