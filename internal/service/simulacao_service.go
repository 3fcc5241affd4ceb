package service

import (
	"context"
	"errors"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

var ErrProdutoNaoEncontrado = errors.New("produto não encontrado")

// SimulacaoService runs price simulations against the catalog.
type SimulacaoService interface {
	Simular(ctx context.Context, req dto.SimulacaoRequest) (*dto.SimulacaoResponse, error)
}

type simulacaoService struct {
	repo  repository.ProdutoRepository
	motor *pricing.Motor
}

func NewSimulacaoService(repo repository.ProdutoRepository, motor *pricing.Motor) SimulacaoService {
	return &simulacaoService{repo: repo, motor: motor}
}

func (s *simulacaoService) Simular(ctx context.Context, req dto.SimulacaoRequest) (*dto.SimulacaoResponse, error) {
	sku := pricing.LimparSKU(req.SKU)
	linhas, err := s.repo.BuscarPorSKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if len(linhas) == 0 {
		return nil, ErrProdutoNaoEncontrado
	}
	// Duplicatas legadas carregam os mesmos dados de preço; a primeira linha basta.
	produto := linhas[0]

	resultado := s.motor.Calcular(&produto, pricing.Contexto{
		Origem:          req.Origem,
		UF:              req.UF,
		Frete:           pricing.Frete(req.Frete),
		TipoCarga:       req.TipoCarga,
		DescontoPrazo:   req.DescontoPrazo,
		DescontoCliente: req.DescontoCliente,
	})

	return &dto.SimulacaoResponse{
		SKU:        sku,
		PrecoFinal: resultado.PrecoFinal,
		Detalhamento: dto.DetalhamentoResponse{
			TarifaBase:          resultado.Detalhamento.TarifaBase,
			TarifaEncontrada:    resultado.Detalhamento.TarifaEncontrada,
			DescontoPrazo:       resultado.Detalhamento.DescontoPrazo,
			DescontoCliente:     resultado.Detalhamento.DescontoCliente,
			DescontoLogistico:   resultado.Detalhamento.DescontoLogistico,
			DescontoPromocional: resultado.Detalhamento.DescontoPromocional,
		},
	}, nil
}
