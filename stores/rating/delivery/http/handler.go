package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/rating"
	authMiddleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	rating rating.UseCase
}

// New will initialize the ratings endpoints
func New(e *echo.Echo, ru rating.UseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		rating: ru,
	}
	g := e.Group("/ratings")
	g.POST("", h.submit, am.Auth())
	g.GET("/seller/:sellerId", h.listBySeller)
	g.GET("/seller/:sellerId/score", h.getSellerScore)
}

func (h *handler) submit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	raterId := c.Get("userId").(domain.UserId)

	type payload struct {
		ListingId string `json:"listingId" validate:"required"`
		Positive  *bool  `json:"positive" validate:"required"`
		Comment   string `json:"comment" validate:"max=500"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if r, err := h.rating.Submit(ctx, raterId, p.ListingId, *p.Positive, p.Comment); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, r)
	}
}

func (h *handler) listBySeller(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	sellerId := domain.UserId(c.Param("sellerId"))

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

	if res, err := h.rating.ListBySeller(ctx, sellerId, p.Offset, p.Limit); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) getSellerScore(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	sellerId := domain.UserId(c.Param("sellerId"))

	if score, err := h.rating.GetSellerScore(ctx, sellerId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, score)
	}
}
