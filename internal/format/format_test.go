package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		code  string
		want  string
	}{
		{"default usd", 1234.5, "", "$1,234.50"},
		{"usd lower", 12, "usd", "$12.00"},
		{"millions", 1234567.891, "USD", "$1,234,567.89"},
		{"negative", -42.1, "USD", "-$42.10"},
		{"negative rounds to zero", -0.001, "USD", "$0.00"},
		{"euro", 99.99, "EUR", "€99.99"},
		{"yen has no decimals", 1500, "JPY", "¥1,500"},
		{"known code without symbol", 1234.5, "CHF", "CHF 1,234.50"},
		{"unknown code", 7, "ZZZ", "ZZZ 7.00"},
		{"zero", 0, "USD", "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.value, tt.code))
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01", "Mar 1, 2024"},
		{"2024-03-01T10:20:30Z", "Mar 1, 2024"},
		{"2023-12-31T23:59:59.123+02:00", "Dec 31, 2023"},
		{"2024-07-04T08:00:00", "Jul 4, 2024"},
		{"next tuesday", "next tuesday"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.in))
		})
	}
}
