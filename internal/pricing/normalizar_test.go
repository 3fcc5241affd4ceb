package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimparSKU(t *testing.T) {
	assert.Equal(t, "AB1234", LimparSKU("ab-12 34"))
	assert.Equal(t, "0001234567A", LimparSKU("000.123.4567-a"))
	assert.Equal(t, "", LimparSKU("--- ---"))
}

func TestLimparSKUIdempotente(t *testing.T) {
	entradas := []string{"ab-12 34", "FOGAO4B", "  x9 ", ""}
	for _, e := range entradas {
		uma := LimparSKU(e)
		assert.Equal(t, uma, LimparSKU(uma))
	}
}

func TestNormalizarDescricao(t *testing.T) {
	assert.Equal(t, "fogao4bocasinox", NormalizarDescricao("Fogão 4 Bocas Inox"))
	assert.Equal(t, "pia", NormalizarDescricao("PIA"))
	assert.Equal(t, "", NormalizarDescricao("- / -"))
}

func TestChaveLogistica(t *testing.T) {
	quer := ChaveLogistica("UBÁ", "MG", "OUTROS", "Truck")
	assert.Equal(t, "UBAMGOUTROSTRUCK", quer)
	// Whitespace interno não altera a chave.
	assert.Equal(t, quer, ChaveLogistica("U BÁ", " MG", "OUT ROS", "Tru ck"))
	// A chave é sensível à ordem dos componentes.
	assert.NotEqual(t, quer, ChaveLogistica("MG", "UBÁ", "OUTROS", "Truck"))
}

func TestChaveLogisticaValorBruto(t *testing.T) {
	// Fase 1 da ingestão usa a mesma construção sobre o valor CONCATENAR cru.
	assert.Equal(t, "UBAMGOUTROSTRUCK", ChaveLogistica("uba mg outros truck"))
}
