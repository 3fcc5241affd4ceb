package service

import (
	"context"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

// CatalogoService exposes read access to the product catalog.
type CatalogoService interface {
	Listar(ctx context.Context, filtro dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	ObterPorSKU(ctx context.Context, sku string) (*dto.ProdutoResponse, error)
}

type catalogoService struct {
	repo repository.ProdutoRepository
}

func NewCatalogoService(repo repository.ProdutoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

func (s *catalogoService) Listar(ctx context.Context, filtro dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	produtos, total, err := s.repo.Listar(ctx, filtro)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		data = append(data, dto.NovoProdutoResponse(&produtos[i]))
	}

	totalPages := int((total + int64(filtro.Limit) - 1) / int64(filtro.Limit))
	return &dto.ProdutoListResponse{
		Data:       data,
		Total:      total,
		Page:       filtro.Page,
		Limit:      filtro.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *catalogoService) ObterPorSKU(ctx context.Context, sku string) (*dto.ProdutoResponse, error) {
	linhas, err := s.repo.BuscarPorSKU(ctx, pricing.LimparSKU(sku))
	if err != nil {
		return nil, err
	}
	if len(linhas) == 0 {
		return nil, ErrProdutoNaoEncontrado
	}
	resp := dto.NovoProdutoResponse(&linhas[0])
	return &resp, nil
}
