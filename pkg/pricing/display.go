package pricing

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
)

// Format renders a Money value as a human display string, e.g. "₹9,999" or
// "₹4,999.50". Digit grouping follows the currency's home locale, so INR
// amounts use the Indian numbering system (₹2,99,900).
func Format(m catalog.Money) string {
	unit, err := currency.ParseISO(m.Currency)
	if err != nil {
		unit = currency.INR
	}

	p := message.NewPrinter(localeFor(unit))

	// Minor units are hundredths for every currency the checkout supports.
	whole := m.Amount / 100
	frac := m.Amount % 100

	if frac == 0 {
		return p.Sprintf("%v%v", currency.Symbol(unit), number.Decimal(whole))
	}
	return p.Sprintf("%v%v.%02d", currency.Symbol(unit), number.Decimal(whole), frac)
}

func localeFor(unit currency.Unit) language.Tag {
	switch unit {
	case currency.INR:
		return language.MustParse("en-IN")
	case currency.GBP:
		return language.BritishEnglish
	default:
		return language.English
	}
}
