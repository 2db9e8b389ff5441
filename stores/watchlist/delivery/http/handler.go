package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/watchlist"
	authMiddleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	watchlist watchlist.UseCase
}

// New will initialize the watchlist endpoints
func New(e *echo.Echo, wu watchlist.UseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		watchlist: wu,
	}
	g := e.Group("/watchlist")
	g.GET("", h.list, am.Auth())
	g.POST("/:listingId", h.add, am.Auth())
	g.DELETE("/:listingId", h.remove, am.Auth())
}

func (h *handler) add(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	if err := h.watchlist.Add(ctx, userId, c.Param("listingId")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, "ok")
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	if err := h.watchlist.Remove(ctx, userId, c.Param("listingId")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	type params struct {
		Offset int32 `query:"offset"`
		Limit  int32 `query:"limit" validate:"omitempty,max=100"`
	}

	p := &params{Limit: 20}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if res, err := h.watchlist.List(ctx, userId, p.Offset, p.Limit); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
