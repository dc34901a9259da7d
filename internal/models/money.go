package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrBadAmount reports a malformed decimal amount string.
var ErrBadAmount = errors.New("malformed amount")

const maxWholeUnits = (1<<63 - 1) / 100

// ParseAmount converts a signed decimal string to cents. Both dot and comma
// decimal separators are accepted, and a third decimal digit rounds half-up.
//
//	ParseAmount("12.34")  -> 1234
//	ParseAmount("-42,50") -> -4250
//	ParseAmount("12.346") -> 1235
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, ErrBadAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrBadAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrBadAmount
		}
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole >= maxWholeUnits {
		// At maxWholeUnits the cents addition below can wrap.
		return 0, ErrBadAmount
	}

	// Two fractional digits kept; the third rounds half-up.
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	cents := whole*100 + frac
	if neg {
		cents = -cents
	}
	return cents, nil
}

// FormatAmount renders cents as a signed decimal string, e.g. -4250 -> "-42.50".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
