package auth

import (
	"fmt"
	"strings"
)

// NormalizeRUT strips dots and hyphens and upper-cases the check digit,
// producing the canonical storage form (e.g. "12345678K").
func NormalizeRUT(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return cleaned
}

// ValidateRUT checks the modulo-11 check digit of a Chilean RUT. The
// input may carry dots and a hyphen; it is normalized first.
func ValidateRUT(raw string) error {
	rut := NormalizeRUT(raw)
	if len(rut) < 2 {
		return fmt.Errorf("rut too short")
	}

	body := rut[:len(rut)-1]
	check := rut[len(rut)-1]

	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		d := body[i]
		if d < '0' || d > '9' {
			return fmt.Errorf("rut body must be numeric")
		}
		sum += int(d-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var expected byte
	switch remainder := 11 - (sum % 11); remainder {
	case 11:
		expected = '0'
	case 10:
		expected = 'K'
	default:
		expected = byte('0' + remainder)
	}

	if check != expected {
		return fmt.Errorf("rut check digit mismatch")
	}
	return nil
}
