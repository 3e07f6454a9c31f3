package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// KRW formats a whole-won amount, e.g. ₩12,000,000.
func KRW(amount int64) string {
	return money.New(amount, money.KRW).Display()
}

// Won formats a decimal amount rounded to whole won.
func Won(amount decimal.Decimal) string {
	return KRW(amount.Round(0).IntPart())
}

// OptionalKRW formats v or returns "-" when it is absent.
func OptionalKRW(v *int64) string {
	if v == nil {
		return "-"
	}
	return KRW(*v)
}

// OptionalWon formats d or returns "-" when it is absent.
func OptionalWon(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return Won(*d)
}

// Percent formats an interest rate with two decimals, e.g. 3.50%.
func Percent(rate decimal.Decimal) string {
	return rate.StringFixed(2) + "%"
}
