package usecase

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeName recorta espacios y normaliza a NFC. La comparación de nombres
// sigue siendo exacta (sensible a mayúsculas).
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
