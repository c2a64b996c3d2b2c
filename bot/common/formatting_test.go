package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{5, "$5"},
		{999, "$999"},
		{1000, "$1,000"},
		{12500, "$12,500"},
		{1234567, "$1,234,567"},
		{-1234, "-$1,234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.amount))
	}
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "<t:1748779200:R>", FormatDiscordTimestamp(ts, "R"))
}
