// Package cpf validates Brazilian CPF numbers and normalizes them to
// the canonical punctuated form.
package cpf

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when the input does not contain exactly
// 11 digits, or when all 11 digits are identical.
var ErrInvalidFormat = errors.New("cpf must contain 11 distinct digits")

// ErrInvalidChecksum is returned when one of the two check digits does
// not match the weighted-sum computation.
var ErrInvalidChecksum = errors.New("cpf checksum mismatch")

// Validate checks a raw CPF string and returns it formatted as
// DDD.DDD.DDD-DD. Non-digit characters are stripped before validation,
// so both "52998224725" and "529.982.247-25" are accepted.
func Validate(raw string) (string, error) {
	digits := make([]int, 0, 11)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}

	if len(digits) != 11 {
		return "", ErrInvalidFormat
	}

	allEqual := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return "", ErrInvalidFormat
	}

	if checkDigit(digits[:9], 10) != digits[9] {
		return "", ErrInvalidChecksum
	}
	if checkDigit(digits[:10], 11) != digits[10] {
		return "", ErrInvalidChecksum
	}

	return format(digits), nil
}

// checkDigit computes a verification digit over the given digits with
// weights counting down from firstWeight to 2. A remainder below 2 maps
// to 0, anything else to 11 minus the remainder.
func checkDigit(digits []int, firstWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (firstWeight - i)
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func format(digits []int) string {
	s := make([]byte, 11)
	for i, d := range digits {
		s[i] = byte('0' + d)
	}
	return fmt.Sprintf("%s.%s.%s-%s", s[0:3], s[3:6], s[6:9], s[9:11])
}
