package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/delivery"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/notification"
	authMiddleware "github.com/curiomart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	notification notification.UseCase
}

// New will initialize the notifications endpoints
func New(e *echo.Echo, nu notification.UseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		notification: nu,
	}
	g := e.Group("/notifications")
	g.GET("", h.list, am.Auth())
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

	if res, err := h.notification.ListByUser(ctx, userId, p.Offset, p.Limit); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
