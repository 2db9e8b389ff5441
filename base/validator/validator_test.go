package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPriceAmount(t *testing.T) {
	valid := []float64{0.99, 1, 2, 50, 125000}
	for _, v := range valid {
		assert.True(t, IsValidPriceAmount(v), "%v", v)
	}

	invalid := []float64{0.5, 1.25, 9.99, 10.01, 100.5}
	for _, v := range invalid {
		assert.False(t, IsValidPriceAmount(v), "%v", v)
	}
}
