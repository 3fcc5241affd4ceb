package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/dto"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/ingestao"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
)

// Job states exposed through the polling endpoint.
const (
	EstadoPendente     = "pendente"
	EstadoExecutando   = "executando"
	EstadoConcluido    = "concluido"
	EstadoVazio        = "vazio"
	EstadoFalhou       = "falhou"
	EstadoCotaExcedida = "cota_excedida"
)

const jobTTL = 24 * time.Hour

var ErrJobNaoEncontrado = errors.New("job não encontrado")

// JobTracker keeps per-job progress in a Redis hash (job:{id}) so the API can
// answer status polls without touching the worker.
type JobTracker struct {
	rdb *redis.Client
}

func NewJobTracker(rdb *redis.Client) *JobTracker {
	return &JobTracker{rdb: rdb}
}

func (t *JobTracker) chave(jobID string) string { return "job:" + jobID }

// Iniciar registers a freshly enqueued job.
func (t *JobTracker) Iniciar(ctx context.Context, jobID string) error {
	chave := t.chave(jobID)
	if err := t.rdb.HSet(ctx, chave, "estado", EstadoPendente).Err(); err != nil {
		return err
	}
	return t.rdb.Expire(ctx, chave, jobTTL).Err()
}

func (t *JobTracker) Executando(ctx context.Context, jobID string) {
	t.gravar(ctx, jobID, map[string]interface{}{"estado": EstadoExecutando})
}

// Progresso mirrors one pipeline progress report into the hash.
func (t *JobTracker) Progresso(ctx context.Context, jobID string, p ingestao.Progresso) {
	t.gravar(ctx, jobID, map[string]interface{}{
		"fase":   p.Fase,
		"salvos": p.Salvos,
		"total":  p.Total,
	})
}

// Concluir stores the final report. An explicitly empty run is its own terminal
// state so the client can tell "nothing to import" from "imported".
func (t *JobTracker) Concluir(ctx context.Context, jobID string, vazio bool, relatorio interface{}) {
	estado := EstadoConcluido
	if vazio {
		estado = EstadoVazio
	}
	campos := map[string]interface{}{"estado": estado}
	if data, err := json.Marshal(relatorio); err == nil {
		campos["relatorio"] = string(data)
	}
	t.gravar(ctx, jobID, campos)
}

func (t *JobTracker) Falhar(ctx context.Context, jobID string, causa error) {
	estado := EstadoFalhou
	if errors.Is(causa, repository.ErrCotaExcedida) {
		estado = EstadoCotaExcedida
	}
	t.gravar(ctx, jobID, map[string]interface{}{
		"estado": estado,
		"erro":   causa.Error(),
	})
}

func (t *JobTracker) gravar(ctx context.Context, jobID string, campos map[string]interface{}) {
	if err := t.rdb.HSet(ctx, t.chave(jobID), campos).Err(); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("tracker: falha ao gravar progresso")
	}
}

// Status reads the job hash back as the API shape.
func (t *JobTracker) Status(ctx context.Context, jobID string) (*dto.JobStatusResponse, error) {
	valores, err := t.rdb.HGetAll(ctx, t.chave(jobID)).Result()
	if err != nil {
		return nil, err
	}
	if len(valores) == 0 {
		return nil, ErrJobNaoEncontrado
	}

	salvos, _ := strconv.Atoi(valores["salvos"])
	total, _ := strconv.Atoi(valores["total"])
	return &dto.JobStatusResponse{
		JobID:     jobID,
		Estado:    valores["estado"],
		Fase:      valores["fase"],
		Salvos:    salvos,
		Total:     total,
		Erro:      valores["erro"],
		Relatorio: valores["relatorio"],
	}, nil
}
