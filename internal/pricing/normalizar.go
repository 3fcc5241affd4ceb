package pricing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LimparSKU canonicalizes a raw product code: uppercase, alphanumeric only.
// Idempotent — safe to apply to already-normalized keys.
func LimparSKU(bruto string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(bruto) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var removeAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoverAcentos strips combining diacritical marks ("Fogão" → "Fogao").
func RemoverAcentos(s string) string {
	limpo, _, err := transform.String(removeAcentos, s)
	if err != nil {
		return s
	}
	return limpo
}

// NormalizarDescricao reduces a product description (or an image filename) to a
// comparable key: lowercase, diacritics stripped, alphanumeric only.
func NormalizarDescricao(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(RemoverAcentos(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ChaveLogistica builds the composite lookup key of the logistics discount
// table: the uppercase, accent-free concatenation of its parts with all
// whitespace stripped. Accents are dropped so a rule keyed "UBAMG…" still hits
// when the simulation says "UBÁ". Key construction is order-sensitive:
// (origem, uf, setor, carga).
func ChaveLogistica(partes ...string) string {
	var b strings.Builder
	for _, p := range partes {
		for _, r := range strings.ToUpper(RemoverAcentos(p)) {
			if !unicode.IsSpace(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
