package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatCurrency formats an amount as "$1,234,567".
func FormatCurrency(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	str := fmt.Sprintf("%d", amount)
	n := len(str)
	var result strings.Builder
	if neg {
		result.WriteRune('-')
	}
	result.WriteRune('$')
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
