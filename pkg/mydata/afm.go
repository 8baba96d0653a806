package mydata

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateAFM valida el dígito de control de un ΑΦΜ griego (9 dígitos).
// Acepta el prefijo de país "EL" o "GR" y espacios. Algoritmo: cada uno de los
// 8 primeros dígitos se multiplica por 2^(8-i); la suma mod 11 mod 10 debe ser
// igual al noveno dígito.
func ValidateAFM(vat string) error {
	digits := normalizeAFM(vat)
	if len(digits) != 9 {
		return fmt.Errorf("mydata: ΑΦΜ debe tener 9 dígitos, se encontraron %d", len(digits))
	}
	if digits == "000000000" {
		return fmt.Errorf("mydata: ΑΦΜ nulo")
	}
	var sum int
	for i := 0; i < 8; i++ {
		sum += int(digits[i]-'0') << (8 - i)
	}
	expected := byte('0' + (sum%11)%10)
	if digits[8] != expected {
		return fmt.Errorf("mydata: dígito de control del ΑΦΜ inválido: esperado %c, recibido %c", expected, digits[8])
	}
	return nil
}

// IsGreekCountry indica si el código de país corresponde a Grecia (GR o EL).
func IsGreekCountry(country string) bool {
	c := strings.ToUpper(strings.TrimSpace(country))
	return c == "GR" || c == "EL"
}

func normalizeAFM(vat string) string {
	s := strings.ToUpper(strings.TrimSpace(vat))
	s = strings.TrimPrefix(s, "EL")
	s = strings.TrimPrefix(s, "GR")
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		} else if !unicode.IsSpace(r) {
			return ""
		}
	}
	return b.String()
}
