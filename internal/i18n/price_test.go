package i18n

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		locale string
		amount string
		want   string
	}{
		{"en", "1200", "$1,200"},
		{"en", "49.5", "$50"},
		{"en", "0", "$0"},
		{"en", "1234567.4", "$1,234,567"},
		{"nl", "1200", "€ 1.200"},
		{"nl", "999.49", "€ 999"},
		{"fr", "1200", "$1,200"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"_"+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.locale, decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestCurrencyCode(t *testing.T) {
	assert.Equal(t, "USD", CurrencyCode("en"))
	assert.Equal(t, "EUR", CurrencyCode("nl"))
	assert.Equal(t, "USD", CurrencyCode(""))
}
