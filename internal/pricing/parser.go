package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePreco normalizes the heterogeneous price representations found in the
// source spreadsheets (mixed decimal/thousands separators, stray currency text)
// into a decimal. It is total: any unparseable input yields zero, never an error.
//
//	"1.234,56" → 1234.56
//	"1,234.56" → 1234.56
//	"R$ 99,90" → 99.90
func ParsePreco(valor interface{}) decimal.Decimal {
	switch v := valor.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		return parsePrecoString(v)
	default:
		return parsePrecoString(fmt.Sprint(valor))
	}
}

func parsePrecoString(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	limpo := b.String()
	if limpo == "" {
		return decimal.Zero
	}

	ultimaVirgula := strings.LastIndex(limpo, ",")
	ultimoPonto := strings.LastIndex(limpo, ".")

	switch {
	case ultimaVirgula >= 0 && ultimoPonto >= 0:
		// O separador mais à direita é o decimal; o outro é de milhar.
		if ultimaVirgula > ultimoPonto {
			limpo = strings.ReplaceAll(limpo, ".", "")
			limpo = strings.Replace(limpo, ",", ".", 1)
		} else {
			limpo = strings.ReplaceAll(limpo, ",", "")
		}
	case ultimaVirgula >= 0:
		limpo = strings.Replace(limpo, ",", ".", 1)
	}

	d, err := decimal.NewFromString(limpo)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseFracaoDesconto interprets a raw discount cell as a fraction in [0,1).
// Values above 1 or carrying a percent sign are read as percentages and divided
// by 100 ("2%" → 0.02, 15 → 0.15, 0.15 → 0.15).
func ParseFracaoDesconto(valor interface{}) decimal.Decimal {
	temPercentual := false
	if s, ok := valor.(string); ok {
		s = strings.TrimSpace(s)
		if strings.HasSuffix(s, "%") {
			temPercentual = true
			valor = strings.TrimSuffix(s, "%")
		}
	}
	d := ParsePreco(valor)
	if temPercentual || d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d
}
