package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/worker"
)

// Upload is one file received by the API, still as a stream.
type Upload struct {
	Nome     string
	MimeType string
	Conteudo io.Reader
}

// filaJobs is the slice of the worker dispatcher this service needs.
type filaJobs interface {
	EnqueueIngestao(ctx context.Context, payload worker.IngestaoPayload) error
	EnqueueImagens(ctx context.Context, payload worker.ImagensPayload) error
}

// registroJobs is the slice of the job tracker this service needs.
type registroJobs interface {
	Iniciar(ctx context.Context, jobID string) error
	Status(ctx context.Context, jobID string) (*dto.JobStatusResponse, error)
}

// ImportacaoService stages uploads on disk and hands them to the worker pool.
// The API answers immediately with a job id the client polls.
type ImportacaoService interface {
	EnfileirarPlanilha(ctx context.Context, planilha Upload) (string, error)
	EnfileirarImagens(ctx context.Context, arquivos []Upload) (string, error)
	Status(ctx context.Context, jobID string) (*dto.JobStatusResponse, error)
}

type importacaoService struct {
	uploadsPath string
	fila        filaJobs
	registro    registroJobs
}

func NewImportacaoService(uploadsPath string, fila filaJobs, registro registroJobs) ImportacaoService {
	return &importacaoService{uploadsPath: uploadsPath, fila: fila, registro: registro}
}

func (s *importacaoService) EnfileirarPlanilha(ctx context.Context, planilha Upload) (string, error) {
	jobID := uuid.NewString()
	destino := filepath.Join(s.uploadsPath, jobID+".xlsx")
	if err := salvarEmDisco(destino, planilha.Conteudo); err != nil {
		return "", fmt.Errorf("salvar planilha: %w", err)
	}

	// O registro acontece antes do LPush: o worker acorda assim que o job
	// entra na fila, e um "pendente" gravado depois atropelaria o estado
	// "executando" que ele já escreveu.
	if err := s.registro.Iniciar(ctx, jobID); err != nil {
		os.Remove(destino)
		return "", err
	}
	if err := s.fila.EnqueueIngestao(ctx, worker.IngestaoPayload{JobID: jobID, Caminho: destino}); err != nil {
		os.Remove(destino)
		return "", err
	}
	return jobID, nil
}

func (s *importacaoService) EnfileirarImagens(ctx context.Context, arquivos []Upload) (string, error) {
	jobID := uuid.NewString()
	dir := filepath.Join(s.uploadsPath, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	metas := make([]worker.ArquivoMeta, 0, len(arquivos))
	for i, a := range arquivos {
		destino := filepath.Join(dir, fmt.Sprintf("%d_%s", i, filepath.Base(a.Nome)))
		if err := salvarEmDisco(destino, a.Conteudo); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("salvar imagem %s: %w", a.Nome, err)
		}
		metas = append(metas, worker.ArquivoMeta{Nome: a.Nome, MimeType: a.MimeType, Caminho: destino})
	}

	if err := s.registro.Iniciar(ctx, jobID); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	if err := s.fila.EnqueueImagens(ctx, worker.ImagensPayload{JobID: jobID, Arquivos: metas}); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return jobID, nil
}

func (s *importacaoService) Status(ctx context.Context, jobID string) (*dto.JobStatusResponse, error) {
	return s.registro.Status(ctx, jobID)
}

func salvarEmDisco(destino string, conteudo io.Reader) error {
	f, err := os.Create(destino)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, conteudo); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
