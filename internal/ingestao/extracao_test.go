package ingestao

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workbookDe(abas map[string][][]string, ordem ...string) *Workbook {
	return &Workbook{Nomes: ordem, Abas: abas}
}

func TestExtrairRegras(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"Parâmetros Logística": {
			{"qualquer coisa"},
			{"CONCATENAR", "Desconto"},
			{"uba mg outros truck", "2%"},
			{"UBASPOUTROSTRUCK", "0,05"},
			{"", "9%"},
			{"UBASPOUTROSTRUCK", "7"},
		},
	}, "Parâmetros Logística")

	regras := ExtrairRegras(wb)

	require.Len(t, regras, 2)
	assert.True(t, regras["UBAMGOUTROSTRUCK"].Equal(decimal.RequireFromString("0.02")))
	// Linhas duplicadas: a última vence; 7 > 1 vira 7%.
	assert.True(t, regras["UBASPOUTROSTRUCK"].Equal(decimal.RequireFromString("0.07")))
}

func TestExtrairRegrasDescontoPorOffset(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"parametro": {
			{"CONCATENAR", "B", "C", "D", "E", "F", "Valor"},
			{"UBAMGOUTROSTRUCK", "", "", "", "", "", "3%"},
		},
	}, "parametro")

	regras := ExtrairRegras(wb)
	assert.True(t, regras["UBAMGOUTROSTRUCK"].Equal(decimal.RequireFromString("0.03")))
}

func TestExtrairRegrasSemAba(t *testing.T) {
	wb := workbookDe(map[string][][]string{"Outra": {{"X"}}}, "Outra")
	assert.Empty(t, ExtrairRegras(wb))
}

func TestExtrairDimensoes(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"ZPPQ001 Export": {
			{"Material", "Comprimento", "Largura", "Altura", "Peso Bruto", "Peso Líquido", "Volume", "KG3"},
			{"000012345", "1,20", "0,60", "0,85", "35,5", "33,1", "0,61", "PESADO"},
			{"", "9", "9", "9", "9", "9", "9", "X"},
		},
	}, "ZPPQ001 Export")

	dims := ExtrairDimensoes(wb)

	require.Len(t, dims, 1)
	d := dims["000012345"]
	require.NotNil(t, d)
	assert.InDelta(t, 1.20, d.Comprimento, 1e-9)
	assert.InDelta(t, 35.5, d.PesoBruto, 1e-9)
	assert.Equal(t, "PESADO", d.KG3)
	// Colunas ausentes: texto vira "-".
	assert.Equal(t, "-", d.StatusLinha)
	assert.Equal(t, "-", d.Hierarquia)
}

func TestExtrairPrecosMergePrimeiroNaoZero(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"BD_Preço": {
			{"#SKU", "Expedição", "Destino", "FOB", "CIF"},
			{"12345", "UBÁ", "MG", "50", "0"},
			{"12345", "UBÁ", "MG", "0", "80"},
			{"12345", "UBÁ", "MG", "999", "999"},
		},
	}, "BD_Preço")

	matrizes := ExtrairPrecos(wb)

	require.Len(t, matrizes, 1)
	rota, ok := matrizes["12345"].Rota("UBÁ", "MG")
	require.True(t, ok)
	// Campo a campo, o primeiro valor não-zero vence.
	assert.True(t, rota.FOB.Equal(decimal.NewFromInt(50)))
	assert.True(t, rota.CIF.Equal(decimal.NewFromInt(80)))
}

func TestExtrairPrecosOrigemPadrao(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"bd_preco": {
			{"#SKU", "Destino", "Preço FOB", "Preço CIF"},
			{"777", "SP", "10", "12"},
		},
	}, "bd_preco")

	matrizes := ExtrairPrecos(wb)
	rota, ok := matrizes["777"].Rota(OrigemPadrao, "SP")
	require.True(t, ok)
	assert.True(t, rota.FOB.Equal(decimal.NewFromInt(10)))
}

func TestExtrairProdutos(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"Tabela - ELETRO": {
			{"MATERIAL", "DESCRIÇÃO", "LINHA", "SETOR", "STATUS"},
			{"12345", "Fogão 4 Bocas", "LinhaX", "OUTROS", "ATIVO"},
			{"99", "Obsoleto", "LinhaX", "OUTROS", "OBSOLETO"},
			{"98", "Inativo", "LinhaX", "OUTROS", "produto INATIVO"},
		},
		"BD_Preço":   {{"#SKU"}},
		"Parâmetros": {{"CONCATENAR"}},
	}, "Tabela - ELETRO", "BD_Preço", "Parâmetros")

	produtos := ExtrairProdutos(wb, nil, nil, UltimaPlanilhaVence)

	require.Len(t, produtos, 1)
	p := produtos["12345"]
	require.NotNil(t, p)
	assert.Equal(t, "ELETRO", p.Grupo)
	assert.Equal(t, "Fogão 4 Bocas", p.Descricao)
	assert.Equal(t, "LinhaX", p.Linha)
	assert.Equal(t, "OUTROS", p.Setor)
}

func TestExtrairProdutosUltimaPlanilhaVence(t *testing.T) {
	abas := map[string][][]string{
		"Tabela - ELETRO": {
			{"MATERIAL", "DESCRIÇÃO"},
			{"12345", "Fogão"},
		},
		"Tabela - MÓVEIS": {
			{"MATERIAL", "DESCRIÇÃO"},
			{"12345", "Armário"},
		},
	}
	ordem := []string{"Tabela - ELETRO", "Tabela - MÓVEIS"}

	ultima := ExtrairProdutos(workbookDe(abas, ordem...), nil, nil, UltimaPlanilhaVence)
	assert.Equal(t, "MÓVEIS", ultima["12345"].Grupo)

	primeira := ExtrairProdutos(workbookDe(abas, ordem...), nil, nil, PrimeiraPlanilhaVence)
	assert.Equal(t, "ELETRO", primeira["12345"].Grupo)
}

func TestExtrairProdutosIgnoraAbasConhecidas(t *testing.T) {
	wb := workbookDe(map[string][][]string{
		"BD_Preço":        {{"#SKU", "MATERIAL"}, {"1", "1"}},
		"Parâmetros":      {{"MATERIAL"}, {"2"}},
		"ZPPQ001":         {{"MATERIAL"}, {"3"}},
		"Comparativo Mkt": {{"MATERIAL"}, {"4"}},
	}, "BD_Preço", "Parâmetros", "ZPPQ001", "Comparativo Mkt")

	assert.Empty(t, ExtrairProdutos(wb, nil, nil, UltimaPlanilhaVence))
}
