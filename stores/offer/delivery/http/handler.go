package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/offer"
	authMiddleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	offer offer.UseCase
}

// New will initialize the offers endpoints
func New(e *echo.Echo, ou offer.UseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		offer: ou,
	}
	g := e.Group("/offers")
	g.POST("", h.create, am.Auth())
	g.GET("", h.listByBuyer, am.Auth())
	g.GET("/listing/:listingId", h.listByListing, am.Auth())
	g.POST("/:offerId/respond", h.respond, am.Auth())
	g.POST("/:offerId/respond-counter", h.respondToCounter, am.Auth())
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	buyerId := c.Get("userId").(domain.UserId)

	type payload struct {
		ListingId string  `json:"listingId" validate:"required"`
		Amount    float64 `json:"amount" validate:"required,priceamount"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if o, err := h.offer.Create(ctx, buyerId, p.ListingId, p.Amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, o)
	}
}

func (h *handler) respond(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	sellerId := c.Get("userId").(domain.UserId)

	type payload struct {
		Action        offer.RespondAction `json:"action" validate:"required,oneof=accept reject counter"`
		CounterAmount *float64            `json:"counterAmount" validate:"omitempty,priceamount"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if o, err := h.offer.Respond(ctx, sellerId, c.Param("offerId"), p.Action, p.CounterAmount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, o)
	}
}

func (h *handler) respondToCounter(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	buyerId := c.Get("userId").(domain.UserId)

	type payload struct {
		Action offer.RespondAction `json:"action" validate:"required,oneof=accept reject"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if o, err := h.offer.RespondToCounter(ctx, buyerId, c.Param("offerId"), p.Action); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, o)
	}
}

func (h *handler) listByListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	callerId := c.Get("userId").(domain.UserId)

	if res, err := h.offer.ListByListing(ctx, callerId, c.Param("listingId")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) listByBuyer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	buyerId := c.Get("userId").(domain.UserId)

	if res, err := h.offer.ListByBuyer(ctx, buyerId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
