package service

import "strings"

const countryCode = "91"

// NormalizePhone reduces an Indian mobile number to digits with the 91
// prefix, so "90597 57657", "+91 9059757657" and "919059757657" are the
// same customer.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")

	switch {
	case len(digits) < 10:
		return "", ErrInvalidPhone
	case len(digits) == 10:
		return countryCode + digits, nil
	case strings.HasPrefix(digits, countryCode):
		return digits, nil
	}
	return countryCode + digits, nil
}
