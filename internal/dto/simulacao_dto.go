package dto

import "github.com/shopspring/decimal"

// SimulacaoRequest is the six-field price simulation context plus the SKU the
// simulation runs against. Discounts arrive as fractions already resolved by
// the presentation layer (payment-term table, client tier bracket).
type SimulacaoRequest struct {
	SKU             string          `json:"sku"              validate:"required"`
	Origem          string          `json:"origem"           validate:"required"`
	UF              string          `json:"uf"               validate:"required,min=2,max=2"`
	Frete           string          `json:"frete"            validate:"required,oneof=FOB CIF"`
	TipoCarga       string          `json:"tipo_carga"`
	DescontoPrazo   decimal.Decimal `json:"desconto_prazo"   validate:"min=0,max=1"`
	DescontoCliente decimal.Decimal `json:"desconto_cliente" validate:"min=0,max=1"`
}

// DetalhamentoResponse is the applied-discounts audit breakdown. The
// promotional slot is reserved and currently always zero.
type DetalhamentoResponse struct {
	TarifaBase          decimal.Decimal `json:"tarifa_base"`
	TarifaEncontrada    bool            `json:"tarifa_encontrada"`
	DescontoPrazo       decimal.Decimal `json:"desconto_prazo"`
	DescontoCliente     decimal.Decimal `json:"desconto_cliente"`
	DescontoLogistico   decimal.Decimal `json:"desconto_logistico"`
	DescontoPromocional decimal.Decimal `json:"desconto_promocional"`
}

type SimulacaoResponse struct {
	SKU          string               `json:"sku"`
	PrecoFinal   decimal.Decimal      `json:"preco_final"`
	Detalhamento DetalhamentoResponse `json:"detalhamento"`
}
