package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/apierror"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/service"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/worker"
)

type ImportacaoHandler struct{ svc service.ImportacaoService }

func NewImportacaoHandler(svc service.ImportacaoService) *ImportacaoHandler {
	return &ImportacaoHandler{svc: svc}
}

// ImportarPlanilha receives the catalog workbook and enqueues the ingestion.
// The response is 202 + job id; the client polls GET /v1/jobs/:id.
func (h *ImportacaoHandler) ImportarPlanilha(c *gin.Context) {
	fh, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Campo 'arquivo' ausente no multipart"))
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		c.JSON(http.StatusBadRequest, apierror.New("Apenas planilhas .xlsx ou .xlsm são aceitas"))
		return
	}

	arquivo, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Não foi possível ler o arquivo enviado"))
		return
	}
	defer arquivo.Close()

	jobID, err := h.svc.EnfileirarPlanilha(c.Request.Context(), service.Upload{
		Nome:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Conteudo: arquivo,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao enfileirar importação"))
		return
	}
	c.JSON(http.StatusAccepted, dto.JobEnfileiradoResponse{JobID: jobID})
}

// ImportarImagens receives a batch of image files for SKU reconciliation.
func (h *ImportacaoHandler) ImportarImagens(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Multipart inválido"))
		return
	}
	headers := form.File["imagens"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Campo 'imagens' ausente no multipart"))
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	abertos := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, a := range abertos {
			a.Close()
		}
	}()
	for _, fh := range headers {
		arquivo, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Não foi possível ler "+fh.Filename))
			return
		}
		abertos = append(abertos, arquivo)
		uploads = append(uploads, service.Upload{
			Nome:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Conteudo: arquivo,
		})
	}

	jobID, err := h.svc.EnfileirarImagens(c.Request.Context(), uploads)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao enfileirar imagens"))
		return
	}
	c.JSON(http.StatusAccepted, dto.JobEnfileiradoResponse{JobID: jobID})
}

func (h *ImportacaoHandler) StatusJob(c *gin.Context) {
	resp, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, worker.ErrJobNaoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Job não encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar job"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
