package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when a price carries no currency code.
const DefaultCurrency = "USD"

// fallbackScale is the number of decimals used for unrecognized codes.
const fallbackScale = 2

// printer groups thousands the en-US way.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.AmericanEnglish)

//nolint:gochecknoglobals // Read-only lookup table.
var narrowSymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CAD": "CA$",
	"AUD": "A$",
}

// Currency formats value as a price in code, for example "$1,234.50".
// An empty code means USD. Codes without a known symbol are written as a
// prefix: "CHF 1,234.50".
func Currency(value float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	scale := fallbackScale
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}

	amount := groupDigits(math.Abs(value), scale)
	sign := ""
	if value < 0 && amount != groupDigits(0, scale) {
		sign = "-"
	}

	if sym, ok := narrowSymbols[code]; ok {
		return sign + sym + amount
	}
	return sign + code + " " + amount
}

// groupDigits renders a non-negative value with scale decimals and
// thousands separators.
func groupDigits(v float64, scale int) string {
	fixed := strconv.FormatFloat(v, 'f', scale, 64)
	intPart, frac, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return fixed
	}
	grouped := printer.Sprintf("%d", n)
	if frac == "" {
		return grouped
	}
	return grouped + "." + frac
}
