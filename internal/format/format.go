// Package format holds the pt-BR presentation helpers shared by the screens.
package format

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money renders a decimal as Brazilian currency: "R$ 1.234,56".
func Money(v decimal.Decimal) string {
	negative := v.IsNegative()
	s := v.Abs().StringFixed(2)

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	out := "R$ " + b.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// Phone renders an 11-digit number as "(99) 99999-9999" and a 10-digit one
// as "(99) 9999-9999". Anything else passes through untouched.
func Phone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch len(digits) {
	case 11:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	case 10:
		return "(" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
	default:
		return raw
	}
}

// Date renders a time as dd/mm/yyyy.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// DateTime renders a time as dd/mm/yyyy hh:mm.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

// Capitalize upper-cases the first letter of each word and lower-cases the
// rest, used for product codes like "BOLO_CENOURA" shown as labels.
func Capitalize(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
