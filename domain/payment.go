package domain

import "github.com/curiomart/goapi/base/ctx"

type CheckoutRequest struct {
	ListingId    string  `json:"listingId"`
	PayerId      UserId  `json:"payerId"`
	Amount       float64 `json:"amount"`
	ShippingCost float64 `json:"shippingCost"`
}

type CheckoutSession struct {
	Id  string `json:"id"`
	Url string `json:"url"`
}

// PaymentProcessor opens checkout sessions with the external payment
// provider. Settlement trusts the provider's webhook to confirm payment.
type PaymentProcessor interface {
	CreateCheckout(ctx ctx.Ctx, req *CheckoutRequest) (*CheckoutSession, error)
}
