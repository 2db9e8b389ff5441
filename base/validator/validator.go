package validator

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/curiomart/goapi/domain/listing"
)

// IsValidPriceAmount enforces whole-unit amounts, with the single legacy
// fractional value still accepted
func IsValidPriceAmount(v float64) bool {
	if v == listing.LegacyMinimumPrice {
		return true
	}
	return v == math.Trunc(v)
}

func priceAmount(fl validator.FieldLevel) bool {
	return IsValidPriceAmount(fl.Field().Float())
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	v.RegisterValidation("priceamount", priceAmount)
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
