package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
)

// Frete is the freight-mode pricing basis.
type Frete string

const (
	FreteFOB Frete = "FOB"
	FreteCIF Frete = "CIF"
)

// SetorPadrao is assumed when a product carries no sector.
const SetorPadrao = "OUTROS"

// Contexto is the transient simulation input: where the quote ships from and
// to, under which freight mode and cargo type, and the two client-side
// discount fractions already resolved by the caller.
type Contexto struct {
	Origem          string
	UF              string
	Frete           Frete
	TipoCarga       string
	DescontoPrazo   decimal.Decimal
	DescontoCliente decimal.Decimal
}

// Detalhamento is the applied-discounts audit breakdown exposed alongside the
// final price. DescontoPromocional is a reserved slot with no value source yet;
// it is always zero but stays in the contract.
type Detalhamento struct {
	TarifaBase          decimal.Decimal
	TarifaEncontrada    bool
	DescontoPrazo       decimal.Decimal
	DescontoCliente     decimal.Decimal
	DescontoLogistico   decimal.Decimal
	DescontoPromocional decimal.Decimal
}

// Resultado of one price simulation.
type Resultado struct {
	PrecoFinal   decimal.Decimal
	Detalhamento Detalhamento
}

// Motor computes final prices. Pure and synchronous — it runs on every
// recompute of the simulation view.
type Motor struct {
	tabela *TabelaLogistica
}

func NovoMotor(tabela *TabelaLogistica) *Motor {
	return &Motor{tabela: tabela}
}

// Calcular resolves the base tariff for the requested route and composes it
// with the independent multiplicative discounts:
//
//	final = base × (1−prazo) × (1−cliente) × (1−logístico) × (1−promocional)
//
// The logistics discount only applies under CIF. A zero/unknown base is a
// terminal case: the result is zero with no discounts applied.
func (m *Motor) Calcular(p *model.Produto, ctx Contexto) Resultado {
	base := basePara(p, ctx)

	r := Resultado{Detalhamento: Detalhamento{TarifaBase: base}}
	if base.IsZero() {
		return r
	}
	r.Detalhamento.TarifaEncontrada = true

	logistico := decimal.Zero
	if ctx.Frete == FreteCIF {
		setor := strings.TrimSpace(p.Setor)
		if setor == "" {
			setor = SetorPadrao
		}
		logistico = m.tabela.Buscar(ctx.Origem, ctx.UF, setor, ctx.TipoCarga)
	}

	um := decimal.NewFromInt(1)
	r.Detalhamento.DescontoPrazo = ctx.DescontoPrazo
	r.Detalhamento.DescontoCliente = ctx.DescontoCliente
	r.Detalhamento.DescontoLogistico = logistico
	r.PrecoFinal = base.
		Mul(um.Sub(ctx.DescontoPrazo)).
		Mul(um.Sub(ctx.DescontoCliente)).
		Mul(um.Sub(logistico)).
		Mul(um.Sub(r.Detalhamento.DescontoPromocional))
	return r
}

func basePara(p *model.Produto, ctx Contexto) decimal.Decimal {
	if len(p.Precos) == 0 {
		// Produtos antigos sem matriz usam o preço plano legado.
		return p.Preco
	}
	rota, ok := p.Precos.Rota(chaveRota(ctx.Origem), chaveRota(ctx.UF))
	if !ok {
		return decimal.Zero
	}
	if ctx.Frete == FreteCIF {
		return rota.CIF
	}
	return rota.FOB
}

func chaveRota(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
