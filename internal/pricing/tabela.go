package pricing

import (
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
)

// TabelaLogistica is the in-memory cache of the logistics discount table.
// It is loaded once at startup and replaced wholesale after a successful
// ingestion run. Replacement swaps the entire map atomically: concurrent
// readers see either the old or the new table in full, never a mix.
type TabelaLogistica struct {
	regras atomic.Pointer[model.MapaRegras]
}

func NovaTabelaLogistica() *TabelaLogistica {
	t := &TabelaLogistica{}
	vazio := model.MapaRegras{}
	t.regras.Store(&vazio)
	return t
}

// Buscar returns the discount fraction for a route/sector/cargo combination.
// A missing rule is not an error: the result is zero (no discount).
func (t *TabelaLogistica) Buscar(origem, uf, setor, carga string) decimal.Decimal {
	regras := *t.regras.Load()
	return regras[ChaveLogistica(origem, uf, setor, carga)]
}

// Substituir replaces the whole table. The input is copied so later mutations
// by the caller cannot leak into readers.
func (t *TabelaLogistica) Substituir(novas model.MapaRegras) {
	copia := make(model.MapaRegras, len(novas))
	for k, v := range novas {
		copia[k] = v
	}
	t.regras.Store(&copia)
}

// Tamanho reports how many rules are loaded (health/debug only).
func (t *TabelaLogistica) Tamanho() int {
	return len(*t.regras.Load())
}
