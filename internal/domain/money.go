package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used for catalog prices until multi-currency pricing
// becomes a requirement.
var DefaultCurrency = currency.EUR

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Mul multiplies the amount by an integer quantity, keeping the currency.
func (m Money) Mul(quantity int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(quantity))),
		Currency: m.Currency,
	}
}

// Add reports false instead of mixing currencies.
func (m Money) Add(other Money) (Money, bool) {
	if m.Currency.String() != other.Currency.String() {
		return Money{}, false
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, true
}
