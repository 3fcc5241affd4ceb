package ingestao

import (
	"strings"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
)

// OrigemPadrao is the expedition origin assumed when the price sheet carries no
// origin column: the Ubá plant.
const OrigemPadrao = "UBÁ"

// ExtrairPrecos reads the BD_Preço matrix: one row per (SKU, origem, UF) with
// FOB and CIF tariffs. Duplicate rows for the same route merge field by field,
// first non-zero value wins — a later zero never blanks a recorded tariff.
func ExtrairPrecos(wb *Workbook) map[string]model.MatrizPrecos {
	matrizes := make(map[string]model.MatrizPrecos)

	_, aba, ok := wb.Aba(func(nome string) bool {
		return strings.Contains(normalizarCabecalho(nome), "BD_PRECO")
	})
	if !ok {
		return matrizes
	}

	linha, colSKU, ok := acharCabecalho(aba, 15, Coluna{Contem: []string{"#SKU"}})
	if !ok {
		return matrizes
	}
	cabecalho := aba[linha]
	colOrigem := acharColuna(cabecalho, Coluna{Contem: []string{"EXPEDI"}})
	colDestino := acharColuna(cabecalho, Coluna{Contem: []string{"DESTI"}})
	colFOB := acharColuna(cabecalho, Coluna{Contem: []string{"FOB"}, Exclui: []string{"CHAVE"}})
	colCIF := acharColuna(cabecalho, Coluna{Contem: []string{"CIF"}, Exclui: []string{"CHAVE"}})

	for _, row := range aba[linha+1:] {
		sku := pricing.LimparSKU(cel(row, colSKU))
		if sku == "" {
			continue
		}
		origem := strings.ToUpper(strings.TrimSpace(cel(row, colOrigem)))
		if origem == "" {
			origem = OrigemPadrao
		}
		destino := strings.ToUpper(strings.TrimSpace(cel(row, colDestino)))
		if destino == "" {
			continue
		}

		matriz := matrizes[sku]
		if matriz == nil {
			matriz = model.MatrizPrecos{}
			matrizes[sku] = matriz
		}
		if matriz[origem] == nil {
			matriz[origem] = make(map[string]model.PrecoRota)
		}

		rota := matriz[origem][destino]
		if rota.FOB.IsZero() {
			rota.FOB = pricing.ParsePreco(cel(row, colFOB))
		}
		if rota.CIF.IsZero() {
			rota.CIF = pricing.ParsePreco(cel(row, colCIF))
		}
		matriz[origem][destino] = rota
	}
	return matrizes
}
