package utils

import (
	"strconv"
	"strings"
)

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	str := strconv.Itoa(n)
	if n < 1000 {
		return str
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// JoinOr joins words with ", " or returns placeholder when there are none.
func JoinOr(words []string, placeholder string) string {
	if len(words) == 0 {
		return placeholder
	}
	return strings.Join(words, ", ")
}

// ValueOr returns placeholder for an absent value.
func ValueOr(value string, ok bool, placeholder string) string {
	if !ok || value == "" {
		return placeholder
	}
	return value
}
