// Package core holds the bill-ledger data model and field coercion helpers.
//
// This file contains the money parser used when coercing report cells.
// Amounts are held in integer cents; calculations never touch floats.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to cents with half-up rounding on
// the third decimal place. Unlike a payment amount, a report cell may
// legitimately be zero or negative (credits appear in aged payables), so
// both are accepted; anything non-numeric is a coercion failure.
//
// Examples:
//
//	ParseAmount("1234.56") -> 123456, nil
//	ParseAmount("-20")     -> -2000, nil
//	ParseAmount("1,234.5") -> 0, ErrInvalidAmount (grouped digits)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Money{}, ErrInvalidAmount
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	// Take the first two fractional digits, half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Dollars returns the dollar value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Min returns the smaller of m and n.
func (m Money) Min(n Money) Money {
	if n.Cents < m.Cents {
		return n
	}
	return m
}
