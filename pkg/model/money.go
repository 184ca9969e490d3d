package model

import "fmt"

// DefaultCurrency is the currency rendered with a symbol prefix. Everything
// else renders as "<amount> <CODE>".
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Money is an amount in minor units (cents) tagged with an ISO currency code.
// Integer minor units keep cart arithmetic exact.
type Money struct {
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Format renders the amount with two decimals. The default currency gets its
// symbol as a prefix; any other currency is suffixed with its code.
func (m Money) Format() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	rendered := fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)

	if m.Currency == DefaultCurrency {
		return currencySymbols[m.Currency] + rendered
	}
	return rendered + " " + m.Currency
}
