package value

import (
	"math"

	"github.com/shopspring/decimal"
)

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nan() float64 { return math.NaN() }
