package dto

import (
	"github.com/shopspring/decimal"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/model"
)

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProdutoFilter struct {
	Grupo string `form:"grupo"`
	Setor string `form:"setor"`
	Busca string `form:"busca"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID        string                     `json:"id"`
	SKU       string                     `json:"sku"`
	Descricao string                     `json:"descricao"`
	Linha     string                     `json:"linha"`
	Grupo     string                     `json:"grupo"`
	Setor     string                     `json:"setor"`
	Precos    model.MatrizPrecos         `json:"precos,omitempty"`
	Dimensoes *model.Dimensoes           `json:"dimensoes,omitempty"`
	ImagemURL string                     `json:"imagem_url,omitempty"`
	Imagens   []model.ImagemCategorizada `json:"imagens,omitempty"`
	Estoque   int                        `json:"estoque"`
	Preco     decimal.Decimal            `json:"preco"`
}

type ProdutoListResponse struct {
	Data       []ProdutoResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// NovoProdutoResponse maps a catalog row to its API shape.
func NovoProdutoResponse(p *model.Produto) ProdutoResponse {
	return ProdutoResponse{
		ID:        p.ID.String(),
		SKU:       p.SKU,
		Descricao: p.Descricao,
		Linha:     p.Linha,
		Grupo:     p.Grupo,
		Setor:     p.Setor,
		Precos:    p.Precos,
		Dimensoes: p.Dimensoes,
		ImagemURL: p.ImagemURL,
		Imagens:   p.Imagens,
		Estoque:   p.Estoque,
		Preco:     p.Preco,
	}
}
