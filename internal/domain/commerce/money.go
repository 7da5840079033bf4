package commerce

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an amount in a specific currency, as returned by the platform.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney builds a Money from a decimal string. Invalid input yields zero.
func NewMoney(amount, currencyCode string) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		d = decimal.Zero
	}
	return Money{Amount: d, CurrencyCode: currencyCode}
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Format renders the amount with the currency's narrow symbol for the given
// locale and its standard number of decimals. Unknown currencies render as
// "<amount> <code>".
func (m Money) Format(tag language.Tag) string {
	unit, err := currency.ParseISO(m.CurrencyCode)
	if err != nil {
		return m.Amount.StringFixed(2) + " " + m.CurrencyCode
	}
	scale, _ := currency.Standard.Rounding(unit)
	symbol := message.NewPrinter(tag).Sprint(currency.NarrowSymbol(unit))
	return symbol + m.Amount.StringFixed(int32(scale))
}

// String formats the amount in English
func (m Money) String() string {
	return m.Format(language.English)
}
