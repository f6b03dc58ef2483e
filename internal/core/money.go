// Package core provides the wash-center domain model: sessions, vehicle
// entries, calendar-day normalization, filtering and summary aggregation.
//
// This file handles monetary amounts. Prices are kept as integer paise so
// summary totals stay exact.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToPaise converts a decimal price string to paise with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. Zero is a valid price; negative values are not.
//
// Examples:
//
//	ParseDecimalToPaise("150")    -> 15000, nil
//	ParseDecimalToPaise("12,34")  -> 1234, nil
//	ParseDecimalToPaise("12.346") -> 1235, nil (rounds up)
//	ParseDecimalToPaise("-5")     -> 0, ErrInvalidPrice
func ParseDecimalToPaise(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidPrice
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidPrice
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidPrice
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidPrice
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	// Guard the *100 below.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidPrice
	}
	// First two fractional digits, half-up rounding on the third.
	var fracPaise int64
	if len(fracPart) > 0 {
		fracPaise = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracPaise += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	return iv*100 + fracPaise, nil
}

// Rupees returns the rupee value as a float64 for display purposes only.
// Use paise for calculations.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Paise: m.Paise + o.Paise}
}
