package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/apierror"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/service"
)

type SimulacaoHandler struct{ svc service.SimulacaoService }

func NewSimulacaoHandler(svc service.SimulacaoService) *SimulacaoHandler {
	return &SimulacaoHandler{svc: svc}
}

func (h *SimulacaoHandler) Simular(c *gin.Context) {
	var req dto.SimulacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Simular(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrProdutoNaoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Produto não encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao simular preço"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
