// Package units converts between human decimal token amounts and integer
// base-unit strings for a given decimal precision. All conversions are
// string and integer manipulations; no floating point is involved, so
// arbitrarily large amounts keep exact precision.
package units

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidAmount reports an absent, empty, or malformed decimal amount
var ErrInvalidAmount = errors.New("invalid amount")

// amountPattern is the decimal-string grammar: digits with an optional
// fractional part, no sign, no exponent
var amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ToBaseUnits converts a human decimal amount to its integer base-unit
// representation at the given decimal precision (0-255). The fractional part
// is right-padded with zeros to exactly decimals digits, or truncated -
// never rounded - when longer. Leading zeros are stripped from the result,
// keeping at least one digit ("0" for exact-zero amounts).
func ToBaseUnits(amount string, decimals int) (string, error) {
	if decimals < 0 || decimals > 255 {
		return "", fmt.Errorf("decimals out of range: %d", decimals)
	}
	if amount == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if !amountPattern.MatchString(amount) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	whole, fraction, _ := strings.Cut(amount, ".")
	if len(fraction) > decimals {
		fraction = fraction[:decimals]
	} else {
		fraction += strings.Repeat("0", decimals-len(fraction))
	}

	return stripLeadingZeros(whole + fraction), nil
}

// FromBaseUnits converts an integer base-unit string back to a human decimal
// amount at the given decimal precision. Trailing zeros are stripped from
// the fractional part; an all-zero fraction is dropped entirely.
func FromBaseUnits(raw string, decimals int) (string, error) {
	if decimals < 0 || decimals > 255 {
		return "", fmt.Errorf("decimals out of range: %d", decimals)
	}
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %s", ErrInvalidAmount, raw)
		}
	}

	digits := stripLeadingZeros(raw)
	if decimals == 0 {
		return digits, nil
	}

	// Left-pad so a whole part always remains after splitting
	if len(digits) < decimals+1 {
		digits = strings.Repeat("0", decimals+1-len(digits)) + digits
	}

	split := len(digits) - decimals
	whole := digits[:split]
	fraction := strings.TrimRight(digits[split:], "0")

	if fraction == "" {
		return whole, nil
	}
	return whole + "." + fraction, nil
}

// stripLeadingZeros removes leading zeros, keeping at least one digit
func stripLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
