package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	bCtx "github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/domain"
)

const (
	bearerKey = "X-API-KEY"
)

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:  cfg.HttpClient,
		timeout: cfg.Timeout,
		baseUrl: cfg.BaseUrl,
		apikey:  cfg.Apikey,
	}
}

type client struct {
	client  http.Client
	timeout time.Duration
	baseUrl string
	apikey  string
}

type createCheckoutPayload struct {
	Reference    string  `json:"reference"`
	PayerId      string  `json:"payerId"`
	Amount       float64 `json:"amount"`
	ShippingCost float64 `json:"shippingCost"`
}

func (c *client) CreateCheckout(ctx bCtx.Ctx, req *domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	url := fmt.Sprintf("%s/checkouts", c.baseUrl)
	payload := createCheckoutPayload{
		Reference:    req.ListingId,
		PayerId:      req.PayerId.String(),
		Amount:       req.Amount,
		ShippingCost: req.ShippingCost,
	}
	data, err := c.post(ctx, url, payload)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.post failed")
		return nil, err
	}
	resp := &SessionResp{}
	if err := json.Unmarshal(data, resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	return &domain.CheckoutSession{Id: resp.Id, Url: resp.Url}, nil
}

func (c *client) GetCheckout(ctx bCtx.Ctx, sessionId string) (*SessionResp, error) {
	url := fmt.Sprintf("%s/checkouts/%s", c.baseUrl, sessionId)
	data, err := c.get(ctx, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.get failed")
		return nil, err
	}
	resp := &SessionResp{}
	if err := json.Unmarshal(data, resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	return resp, nil
}

func (c *client) get(ctx bCtx.Ctx, url string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	req.Header.Set(bearerKey, c.apikey)
	return c.do(ctx, req)
}

func (c *client) post(ctx bCtx.Ctx, url string, payload interface{}) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	body, err := json.Marshal(payload)
	if err != nil {
		ctx.WithField("err", err).Error("json.Marshal failed")
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	req.Header.Set(bearerKey, c.apikey)
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req)
}

func (c *client) do(ctx bCtx.Ctx, req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": req.URL.String(),
			"err": err,
		}).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        req.URL.String(),
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": req.URL.String(),
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}
