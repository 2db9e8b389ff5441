package payment

import (
	"errors"
	"net/http"
	"time"

	bCtx "github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
)

// Client talks to the hosted checkout provider
type Client interface {
	domain.PaymentProcessor
	GetCheckout(ctx bCtx.Ctx, sessionId string) (*SessionResp, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	BaseUrl    string
	Apikey     string
}

type SessionResp struct {
	Id        string  `json:"id"`
	Url       string  `json:"url"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
}
