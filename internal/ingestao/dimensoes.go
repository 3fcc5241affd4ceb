package ingestao

import (
	"strings"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
)

// textoOuTraco is the default for textual dimension fields whose column is absent.
const textoOuTraco = "-"

// colunasDimensoes resolves every logical field of the ZPPQ001 export once per
// sheet. A -1 entry means the column is absent and the field takes its default.
type colunasDimensoes struct {
	material, comprimento, largura, altura  int
	pesoBruto, pesoLiquido, volume          int
	kg3, statusLinha, statusSKU             int
	classificacao, hierarquia, tipoMaterial int
}

func resolverColunasDimensoes(cabecalho []string, colMaterial int) colunasDimensoes {
	return colunasDimensoes{
		material:      colMaterial,
		comprimento:   acharColuna(cabecalho, Coluna{Contem: []string{"COMPRIMENTO"}}),
		largura:       acharColuna(cabecalho, Coluna{Contem: []string{"LARGURA"}}),
		altura:        acharColuna(cabecalho, Coluna{Contem: []string{"ALTURA"}}),
		pesoBruto:     acharColuna(cabecalho, Coluna{Contem: []string{"PESO BRUTO", "BRUTO"}}),
		pesoLiquido:   acharColuna(cabecalho, Coluna{Contem: []string{"PESO LIQUIDO", "LIQUIDO"}}),
		volume:        acharColuna(cabecalho, Coluna{Contem: []string{"VOLUME"}}),
		kg3:           acharColuna(cabecalho, Coluna{Contem: []string{"KG3"}}),
		statusLinha:   acharColuna(cabecalho, Coluna{Contem: []string{"STATUS LINHA", "ST. LINHA"}}),
		statusSKU:     acharColuna(cabecalho, Coluna{Contem: []string{"STATUS SKU", "ST. SKU"}}),
		classificacao: acharColuna(cabecalho, Coluna{Contem: []string{"CLASSIFIC"}}),
		hierarquia:    acharColuna(cabecalho, Coluna{Contem: []string{"HIERARQ"}}),
		tipoMaterial:  acharColuna(cabecalho, Coluna{Contem: []string{"TIPO"}, Exclui: []string{"STATUS"}}),
	}
}

// ExtrairDimensoes reads physical dimensions and lifecycle attributes from the
// ZPPQ001 sheet, keyed by normalized material code. Missing sheet → empty map.
func ExtrairDimensoes(wb *Workbook) map[string]*model.Dimensoes {
	dims := make(map[string]*model.Dimensoes)

	_, aba, ok := wb.Aba(func(nome string) bool {
		return strings.Contains(normalizarCabecalho(nome), "ZPPQ001")
	})
	if !ok {
		return dims
	}

	linha, colMaterial, ok := acharCabecalho(aba, 10, Coluna{Contem: []string{"MATERIAL"}})
	if !ok {
		return dims
	}
	cols := resolverColunasDimensoes(aba[linha], colMaterial)

	for _, row := range aba[linha+1:] {
		sku := pricing.LimparSKU(cel(row, cols.material))
		if sku == "" {
			continue
		}
		dims[sku] = &model.Dimensoes{
			Comprimento:   numero(row, cols.comprimento),
			Largura:       numero(row, cols.largura),
			Altura:        numero(row, cols.altura),
			PesoBruto:     numero(row, cols.pesoBruto),
			PesoLiquido:   numero(row, cols.pesoLiquido),
			Volume:        numero(row, cols.volume),
			KG3:           texto(row, cols.kg3),
			StatusLinha:   texto(row, cols.statusLinha),
			StatusSKU:     texto(row, cols.statusSKU),
			Classificacao: texto(row, cols.classificacao),
			Hierarquia:    texto(row, cols.hierarquia),
			TipoMaterial:  texto(row, cols.tipoMaterial),
		}
	}
	return dims
}

func numero(row []string, col int) float64 {
	if col < 0 {
		return 0
	}
	f, _ := pricing.ParsePreco(cel(row, col)).Float64()
	return f
}

func texto(row []string, col int) string {
	if col < 0 {
		return textoOuTraco
	}
	v := strings.TrimSpace(cel(row, col))
	if v == "" {
		return textoOuTraco
	}
	return v
}
