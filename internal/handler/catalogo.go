package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/apierror"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/service"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

func (h *CatalogoHandler) Listar(c *gin.Context) {
	var filtro dto.ProdutoFilter
	if err := c.ShouldBindQuery(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros de paginação inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filtro)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar produtos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ObterPorSKU(c *gin.Context) {
	resp, err := h.svc.ObterPorSKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		if errors.Is(err, service.ErrProdutoNaoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Produto não encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao buscar produto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
