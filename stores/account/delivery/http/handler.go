package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/account"
	authMiddleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	account account.UseCase
}

// New will initialize the accounts endpoints
func New(e *echo.Echo, au account.UseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		account: au,
	}
	g := e.Group("/accounts")
	g.GET("/:userId", h.get)
	g.POST("", h.register, am.Auth())

	// admin
	g.POST("/:userId/suspend", h.suspend, am.Auth(), am.IsAdmin())
	g.POST("/:userId/reinstate", h.reinstate, am.Auth(), am.IsAdmin())
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := domain.UserId(c.Param("userId"))

	if a, err := h.account.Get(ctx, userId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, a)
	}
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	type payload struct {
		DisplayName string `json:"displayName" validate:"max=64"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if a, err := h.account.Register(ctx, userId, p.DisplayName); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, a)
	}
}

func (h *handler) suspend(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := domain.UserId(c.Param("userId"))

	type payload struct {
		Reason string `json:"reason" validate:"required,max=200"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if err := h.account.Suspend(ctx, userId, p.Reason); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) reinstate(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := domain.UserId(c.Param("userId"))

	if err := h.account.Reinstate(ctx, userId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
