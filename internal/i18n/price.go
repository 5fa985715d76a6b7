package i18n

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// Currency of a locale: the symbol and whether it is followed by a space.
type currency struct {
	code   string
	symbol string
	spaced bool
}

var currencies = map[string]currency{
	English: {code: "USD", symbol: "$"},
	Dutch:   {code: "EUR", symbol: "€", spaced: true},
}

// CurrencyCode returns the ISO 4217 code prices are shown in for a locale.
func CurrencyCode(code string) string {
	return currencies[Normalize(code)].code
}

// FormatPrice renders amount in the locale's currency with grouped digits
// and no fraction, e.g. "$1,200" for en and "€ 1.200" for nl. Halves round
// away from zero.
func FormatPrice(code string, amount decimal.Decimal) string {
	code = Normalize(code)
	cur := currencies[code]

	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	p := message.NewPrinter(Tag(code))
	digits := p.Sprintf("%d", rounded.IntPart())

	if cur.spaced {
		return cur.symbol + " " + sign + digits
	}
	return sign + cur.symbol + digits
}
