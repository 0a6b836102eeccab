package utils

import (
	"strings"
	"unicode"
)

// NormalizePlate upper-cases a licence plate and drops whitespace and dashes,
// so "ab-123 cd" and "AB123CD" refer to the same vehicle.
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeVehicleType maps free-form vehicle types to a lower-case form.
// A few common synonyms share one name.
func NormalizeVehicleType(vehicleType string) string {
	name := strings.ToLower(strings.TrimSpace(vehicleType))
	switch name {
	case "moto", "motorbike":
		return "motorcycle"
	case "auto", "automobile":
		return "car"
	}
	return name
}
