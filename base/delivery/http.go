package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

type bidTooLowBody struct {
	Message         string  `json:"message"`
	RequiredMinimum float64 `json:"requiredMinimum"`
}

// MakeJsonResp writes the uniform response envelope. Domain errors override
// the passed status with their canonical code.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status, data = classifyError(err, status)
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

func classifyError(err error, status int) (int, interface{}) {
	bidTooLow := &domain.BidTooLowError{}
	switch {
	case errors.As(err, &bidTooLow):
		return http.StatusConflict, bidTooLowBody{bidTooLow.Error(), bidTooLow.RequiredMinimum}
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrAccountSuspended):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, err.Error()
	case status >= 400:
		return status, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
