package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/imagens"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/infra"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/ingestao"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

// ImagensWorker consumes image reconciliation jobs. The staged files live in a
// per-job directory under the uploads path; the directory is removed after the
// run.
type ImagensWorker struct {
	rdb      *redis.Client
	produtos repository.ProdutoRepository
	blob     infra.BlobStorage
	tracker  *JobTracker
	opcoes   imagens.Opcoes
}

func NewImagensWorker(
	rdb *redis.Client,
	produtos repository.ProdutoRepository,
	blob infra.BlobStorage,
	tracker *JobTracker,
	opcoes imagens.Opcoes,
) *ImagensWorker {
	return &ImagensWorker{rdb: rdb, produtos: produtos, blob: blob, tracker: tracker, opcoes: opcoes}
}

func (w *ImagensWorker) Processar(ctx context.Context, raw json.RawMessage) {
	var payload ImagensPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("imagens: payload inválido")
		SendToDLQ(ctx, w.rdb, QueueImagens, "imagens", raw, err.Error(), 1)
		return
	}

	w.tracker.Executando(ctx, payload.JobID)
	defer w.limpar(payload)

	arquivos := make([]imagens.Arquivo, 0, len(payload.Arquivos))
	for _, meta := range payload.Arquivos {
		dados, err := os.ReadFile(meta.Caminho)
		if err != nil {
			// Arquivo sumiu do staging: segue sem ele.
			log.Warn().Err(err).Str("arquivo", meta.Nome).Msg("imagens: staging ilegível")
			continue
		}
		arquivos = append(arquivos, imagens.Arquivo{Nome: meta.Nome, MimeType: meta.MimeType, Dados: dados})
	}

	op := w.opcoes
	op.Progresso = func(p ingestao.Progresso) {
		w.tracker.Progresso(ctx, payload.JobID, p)
	}

	rel, err := imagens.NovoPipeline(w.produtos, w.blob, op).Executar(ctx, arquivos)
	if err != nil {
		log.Error().Err(err).Str("job_id", payload.JobID).Msg("imagens: job falhou")
		w.tracker.Falhar(ctx, payload.JobID, err)
		SendToDLQ(ctx, w.rdb, QueueImagens, "imagens", raw, err.Error(), 1)
		return
	}
	w.tracker.Concluir(ctx, payload.JobID, rel.Casados == 0 && len(rel.Ignorados) == 0, rel)
}

func (w *ImagensWorker) limpar(payload ImagensPayload) {
	for _, meta := range payload.Arquivos {
		os.Remove(meta.Caminho)
	}
	if len(payload.Arquivos) > 0 {
		os.Remove(filepath.Dir(payload.Arquivos[0].Caminho))
	}
}
