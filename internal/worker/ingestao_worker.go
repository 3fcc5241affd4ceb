package worker

import (
	"context"
	"encoding/json"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/ingestao"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

// IngestaoWorker consumes catalog import jobs. One pipeline run per job; the
// staged spreadsheet is removed when the run finishes, success or not.
type IngestaoWorker struct {
	rdb      *redis.Client
	produtos repository.ProdutoRepository
	regras   repository.RegrasLogisticaRepository
	tabela   *pricing.TabelaLogistica
	tracker  *JobTracker
	opcoes   ingestao.Opcoes
}

func NewIngestaoWorker(
	rdb *redis.Client,
	produtos repository.ProdutoRepository,
	regras repository.RegrasLogisticaRepository,
	tabela *pricing.TabelaLogistica,
	tracker *JobTracker,
	opcoes ingestao.Opcoes,
) *IngestaoWorker {
	return &IngestaoWorker{
		rdb:      rdb,
		produtos: produtos,
		regras:   regras,
		tabela:   tabela,
		tracker:  tracker,
		opcoes:   opcoes,
	}
}

func (w *IngestaoWorker) Processar(ctx context.Context, raw json.RawMessage) {
	var payload IngestaoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ingestão: payload inválido")
		SendToDLQ(ctx, w.rdb, QueueIngestao, "ingestao", raw, err.Error(), 1)
		return
	}

	w.tracker.Executando(ctx, payload.JobID)
	defer os.Remove(payload.Caminho)

	arquivo, err := os.Open(payload.Caminho)
	if err != nil {
		w.falhar(ctx, payload, raw, err)
		return
	}
	wb, err := ingestao.LerXLSX(arquivo)
	arquivo.Close()
	if err != nil {
		w.falhar(ctx, payload, raw, err)
		return
	}

	op := w.opcoes
	op.Progresso = func(p ingestao.Progresso) {
		w.tracker.Progresso(ctx, payload.JobID, p)
	}

	rel, err := ingestao.NovoPipeline(w.produtos, w.regras, w.tabela, op).Executar(ctx, wb)
	if err != nil {
		w.falhar(ctx, payload, raw, err)
		return
	}
	w.tracker.Concluir(ctx, payload.JobID, rel.Vazio, rel)
}

func (w *IngestaoWorker) falhar(ctx context.Context, payload IngestaoPayload, raw json.RawMessage, err error) {
	log.Error().Err(err).Str("job_id", payload.JobID).Msg("ingestão: job falhou")
	w.tracker.Falhar(ctx, payload.JobID, err)
	SendToDLQ(ctx, w.rdb, QueueIngestao, "ingestao", raw, err.Error(), 1)
}
