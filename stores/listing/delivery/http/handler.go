package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
	authMiddleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	listing listing.UseCase
}

// New will initialize the listings endpoints
func New(e *echo.Echo, lu listing.UseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		listing: lu,
	}
	g := e.Group("/listings")
	g.GET("", h.search)
	g.GET("/:listingId", h.get)
	g.POST("/auction", h.createAuction, am.Auth())
	g.POST("/fixed-price", h.createFixedPrice, am.Auth())
	g.PATCH("/:listingId", h.update, am.Auth())
	g.DELETE("/:listingId", h.cancel, am.Auth())
	g.POST("/:listingId/bids", h.placeBid, am.Auth())
	g.GET("/:listingId/bids", h.getBidHistory, am.OptionalAuth())
}

func (h *handler) createAuction(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	sellerId := c.Get("userId").(domain.UserId)

	type payload struct {
		listing.CreateAuctionParams
		StartingPrice float64  `json:"startingPrice" validate:"required,priceamount"`
		BuyItNowPrice *float64 `json:"buyItNowPrice" validate:"omitempty,priceamount"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	p.CreateAuctionParams.StartingPrice = p.StartingPrice
	p.CreateAuctionParams.BuyItNowPrice = p.BuyItNowPrice

	if l, err := h.listing.CreateAuction(ctx, sellerId, &p.CreateAuctionParams); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, l)
	}
}

func (h *handler) createFixedPrice(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	sellerId := c.Get("userId").(domain.UserId)

	type payload struct {
		listing.CreateFixedPriceParams
		Price          float64  `json:"price" validate:"required,priceamount"`
		MinOfferAmount *float64 `json:"minOfferAmount" validate:"omitempty,priceamount"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	p.CreateFixedPriceParams.Price = p.Price
	p.CreateFixedPriceParams.MinOfferAmount = p.MinOfferAmount

	if l, err := h.listing.CreateFixedPrice(ctx, sellerId, &p.CreateFixedPriceParams); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, l)
	}
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	detail, err := h.listing.Get(ctx, c.Param("listingId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, detail)
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		SellerId     string   `query:"sellerId"`
		ItemId       string   `query:"itemId"`
		Type         string   `query:"type"`
		Statuses     []string `query:"status"`
		PriceGTE     *float64 `query:"priceGTE"`
		PriceLTE     *float64 `query:"priceLTE"`
		HasBuyItNow  *bool    `query:"hasBuyItNow"`
		EndingBefore string   `query:"endingBefore"`
		Sort         string   `query:"sort"`
		Offset       int32    `query:"offset"`
		Limit        int32    `query:"limit" validate:"omitempty,max=100"`
	}

	p := &params{Limit: 20}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	optFns := []listing.FindAllOptionsFunc{
		listing.WithPagination(p.Offset, p.Limit),
	}
	if p.SellerId != "" {
		optFns = append(optFns, listing.WithSellerId(domain.UserId(p.SellerId)))
	}
	if p.ItemId != "" {
		optFns = append(optFns, listing.WithItemId(p.ItemId))
	}
	if p.Type != "" {
		optFns = append(optFns, listing.WithType(listing.Type(p.Type)))
	}
	if len(p.Statuses) > 0 {
		ss := make([]listing.Status, 0, len(p.Statuses))
		for _, s := range p.Statuses {
			ss = append(ss, listing.Status(s))
		}
		optFns = append(optFns, listing.WithStatuses(ss...))
	}
	if p.PriceGTE != nil {
		optFns = append(optFns, listing.WithPriceGTE(*p.PriceGTE))
	}
	if p.PriceLTE != nil {
		optFns = append(optFns, listing.WithPriceLTE(*p.PriceLTE))
	}
	if p.HasBuyItNow != nil {
		optFns = append(optFns, listing.WithHasBuyItNow(*p.HasBuyItNow))
	}
	if p.EndingBefore != "" {
		t, err := time.Parse(time.RFC3339, p.EndingBefore)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "endingBefore must be RFC3339")
		}
		optFns = append(optFns, listing.WithEndTimeLTE(t))
	}
	if p.Sort != "" {
		optFns = append(optFns, listing.WithSort(p.Sort))
	}

	if res, err := h.listing.Search(ctx, optFns...); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	sellerId := c.Get("userId").(domain.UserId)

	type payload struct {
		listing.Updater
		BuyItNowPrice *float64 `json:"buyItNowPrice" validate:"omitempty,priceamount"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	p.Updater.BuyItNowPrice = p.BuyItNowPrice

	if l, err := h.listing.Update(ctx, c.Param("listingId"), sellerId, &p.Updater); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, l)
	}
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	sellerId := c.Get("userId").(domain.UserId)

	type payload struct {
		Reason string `json:"reason"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.listing.Cancel(ctx, c.Param("listingId"), sellerId, p.Reason); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	bidderId := c.Get("userId").(domain.UserId)

	type payload struct {
		// whole-unit amounts apply to listing prices only; required minimums
		// from the increment table are fractional, so a maximum bid is not
		// restricted beyond being positive
		MaxBid float64 `json:"maxBid" validate:"required,gt=0"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if res, err := h.listing.PlaceBid(ctx, c.Param("listingId"), bidderId, p.MaxBid); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, res)
	}
}

func (h *handler) getBidHistory(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	viewerId := domain.UserId("")
	if v, ok := c.Get("userId").(domain.UserId); ok {
		viewerId = v
	}

	if res, err := h.listing.GetBidHistory(ctx, c.Param("listingId"), viewerId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
