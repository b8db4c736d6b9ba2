// Package money provides currency-safe helpers for displaying extracted
// payroll amounts. Values flow through the engine as shopspring decimals;
// go-money supplies locale-correct rendering for reports.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BRL is the only currency the reference deployment handles.
const BRL = "BRL"

// FromDecimal converts a decimal amount into a go-money value in minor
// units, rounding to cents.
func FromDecimal(amount decimal.Decimal, currencyCode string) *money.Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(BRL)
	}
	cents := amount.Mul(decimal.New(1, int32(currency.Fraction))).Round(0).IntPart()
	return money.New(cents, currency.Code)
}

// DisplayBRL renders an amount the way a Brazilian payslip would,
// e.g. "R$1.203,30".
func DisplayBRL(amount decimal.Decimal) string {
	return FromDecimal(amount, BRL).Display()
}

// ToDecimal converts a go-money value back to an exact decimal.
func ToDecimal(m *money.Money) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	fraction := int32(m.Currency().Fraction)
	return decimal.NewFromInt(m.Amount()).Div(decimal.New(1, fraction))
}
