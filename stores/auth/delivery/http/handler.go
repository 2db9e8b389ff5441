package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
)

type authHandler struct {
	auth domain.AuthUsecase
}

func New(e *echo.Echo, auth domain.AuthUsecase) {
	handler := &authHandler{
		auth: auth,
	}
	g := e.Group("/auth")
	g.POST("/token", handler.issueToken)
}

func (h *authHandler) issueToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		UserId domain.UserId `json:"userId" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return c.JSON(http.StatusUnprocessableEntity, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if tkn, err := h.auth.IssueToken(ctx, p.UserId); err != nil {
		ctx.WithField("err", err).Error("auth.IssueToken failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}
