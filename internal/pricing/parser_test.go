package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePreco(t *testing.T) {
	casos := []struct {
		nome    string
		entrada interface{}
		quer    string
	}{
		{"nil", nil, "0"},
		{"string vazia", "", "0"},
		{"numero puro", 120, "120"},
		{"float", 99.9, "99.9"},
		{"decimal brasileiro", "1.234,56", "1234.56"},
		{"decimal americano", "1,234.56", "1234.56"},
		{"so virgula", "99,90", "99.9"},
		{"so ponto", "99.90", "99.9"},
		{"com moeda", "R$ 1.250,00", "1250"},
		{"lixo", "abc", "0"},
		{"milhar duplo", "1.234.567,89", "1234567.89"},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			got := ParsePreco(c.entrada)
			assert.True(t, got.Equal(decimal.RequireFromString(c.quer)),
				"ParsePreco(%v) = %s, quer %s", c.entrada, got, c.quer)
		})
	}
}

func TestParsePrecoIdempotente(t *testing.T) {
	primeira := ParsePreco("1.234,56")
	segunda := ParsePreco(primeira.String())
	assert.True(t, primeira.Equal(segunda))
}

func TestParseFracaoDesconto(t *testing.T) {
	casos := []struct {
		entrada interface{}
		quer    string
	}{
		{"2%", "0.02"},
		{"15", "0.15"},
		{15, "0.15"},
		{"0,15", "0.15"},
		{0.02, "0.02"},
		{"", "0"},
	}
	for _, c := range casos {
		got := ParseFracaoDesconto(c.entrada)
		assert.True(t, got.Equal(decimal.RequireFromString(c.quer)),
			"ParseFracaoDesconto(%v) = %s, quer %s", c.entrada, got, c.quer)
	}
}
