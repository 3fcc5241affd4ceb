package ingestao

import (
	"strings"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
)

// MergeStrategy decides what happens when the same SKU appears in more than one
// category sheet of the same workbook.
type MergeStrategy int

const (
	// UltimaPlanilhaVence: the sheet processed later replaces the full-record
	// fields (grupo, linha, setor, descrição) of the earlier occurrence.
	UltimaPlanilhaVence MergeStrategy = iota
	// PrimeiraPlanilhaVence keeps the first occurrence untouched.
	PrimeiraPlanilhaVence
)

// Sheets that are known not to be product listings, matched by normalized
// substring on the sheet name.
var abasExcluidas = []string{
	"PRECO", "PARAMETRO", "PREMISSA", "DESCRI", "IMAGE",
	"COMPARATIVO", "COMPOSI", "ZPPQ",
}

const prefixoGrupo = "Tabela - "

// ExtrairProdutos walks every sheet that is not on the exclusion list, reads its
// product rows and assembles unified records, attaching the dimension and price
// entries extracted earlier by normalized SKU. Rows whose status reads INATIVO
// or OBSOLETO are skipped.
func ExtrairProdutos(
	wb *Workbook,
	dims map[string]*model.Dimensoes,
	matrizes map[string]model.MatrizPrecos,
	estrategia MergeStrategy,
) map[string]*model.Produto {
	produtos := make(map[string]*model.Produto)

	for _, nomeAba := range wb.Nomes {
		if abaExcluida(nomeAba) {
			continue
		}
		aba := wb.Abas[nomeAba]

		linha, colSKU, ok := acharCabecalho(aba, 15, Coluna{Contem: []string{"MATERIAL", "SKU", "CODIGO"}})
		if !ok {
			continue
		}
		cabecalho := aba[linha]
		colDescricao := acharColuna(cabecalho, Coluna{Contem: []string{"DESCRI"}})
		colLinha := acharColuna(cabecalho, Coluna{Contem: []string{"LINHA"}, Exclui: []string{"STATUS"}})
		colSetor := acharColuna(cabecalho, Coluna{Exatas: []string{"SETOR"}, Contem: []string{"SETOR DE"}})
		colStatus := acharColuna(cabecalho, Coluna{Contem: []string{"STATUS"}})

		grupo := strings.TrimSpace(strings.TrimPrefix(nomeAba, prefixoGrupo))

		for _, row := range aba[linha+1:] {
			sku := pricing.LimparSKU(cel(row, colSKU))
			if sku == "" {
				continue
			}
			status := strings.ToUpper(cel(row, colStatus))
			if strings.Contains(status, "INATIVO") || strings.Contains(status, "OBSOLETO") {
				continue
			}
			if estrategia == PrimeiraPlanilhaVence {
				if _, existe := produtos[sku]; existe {
					continue
				}
			}
			produtos[sku] = &model.Produto{
				SKU:       sku,
				Descricao: strings.TrimSpace(cel(row, colDescricao)),
				Linha:     strings.TrimSpace(cel(row, colLinha)),
				Setor:     strings.TrimSpace(cel(row, colSetor)),
				Grupo:     grupo,
				Dimensoes: dims[sku],
				Precos:    matrizes[sku],
			}
		}
	}
	return produtos
}

func abaExcluida(nome string) bool {
	normalizado := normalizarCabecalho(nome)
	for _, padrao := range abasExcluidas {
		if strings.Contains(normalizado, padrao) {
			return true
		}
	}
	return false
}
