package ingestao

import (
	"strings"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
)

// Coluna is the declarative resolution spec for one logical field: exact header
// names first, then candidate substrings in preference order, minus any
// disqualifying substrings. Matching is case- and accent-insensitive.
type Coluna struct {
	Exatas []string
	Contem []string
	Exclui []string
}

// normalizarCabecalho puts a header cell in canonical comparison form.
func normalizarCabecalho(s string) string {
	return strings.ToUpper(strings.TrimSpace(pricing.RemoverAcentos(s)))
}

// acharColuna resolves the spec against one header row. Returns -1 when no
// column qualifies — the extractors treat that as "field absent", never an error.
func acharColuna(cabecalho []string, spec Coluna) int {
	normalizado := make([]string, len(cabecalho))
	for i, c := range cabecalho {
		normalizado[i] = normalizarCabecalho(c)
	}

	for _, exata := range spec.Exatas {
		alvo := normalizarCabecalho(exata)
		for i, c := range normalizado {
			if c == alvo {
				return i
			}
		}
	}

	for _, candidato := range spec.Contem {
		alvo := normalizarCabecalho(candidato)
	celulas:
		for i, c := range normalizado {
			if c == "" || !strings.Contains(c, alvo) {
				continue
			}
			for _, excluido := range spec.Exclui {
				if strings.Contains(c, normalizarCabecalho(excluido)) {
					continue celulas
				}
			}
			return i
		}
	}
	return -1
}

// acharCabecalho scans the first maxLinhas rows of a sheet for the row that
// resolves the anchor spec, returning the row index and the anchor column.
func acharCabecalho(aba [][]string, maxLinhas int, ancora Coluna) (linha, coluna int, ok bool) {
	for i, row := range aba {
		if i >= maxLinhas {
			break
		}
		if col := acharColuna(row, ancora); col >= 0 {
			return i, col, true
		}
	}
	return 0, -1, false
}

// cel reads a cell; out-of-range indices read as empty.
func cel(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
