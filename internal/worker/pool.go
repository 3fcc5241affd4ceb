package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueIngestao = "jobs:ingestao"
	QueueImagens  = "jobs:imagens"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// IngestaoPayload points at the spreadsheet saved by the upload handler.
type IngestaoPayload struct {
	JobID   string `json:"job_id"`
	Caminho string `json:"caminho"`
}

// ImagensPayload lists the staged image files of one upload.
type ImagensPayload struct {
	JobID    string        `json:"job_id"`
	Arquivos []ArquivoMeta `json:"arquivos"`
}

type ArquivoMeta struct {
	Nome     string `json:"nome"`
	MimeType string `json:"mime_type"`
	Caminho  string `json:"caminho"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueIngestao pushes a catalog import job to Redis.
func (d *Dispatcher) EnqueueIngestao(ctx context.Context, payload IngestaoPayload) error {
	return d.enqueue(ctx, QueueIngestao, "ingestao", payload)
}

// EnqueueImagens pushes an image reconciliation job to Redis.
func (d *Dispatcher) EnqueueImagens(ctx context.Context, payload ImagensPayload) error {
	return d.enqueue(ctx, QueueImagens, "imagens", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers groups the concrete job processors wired at startup.
type Handlers struct {
	Ingestao *IngestaoWorker
	Imagens  *ImagensWorker
}

// StartWorkerPool launches the consumers. The ingestion queue gets exactly one
// goroutine so concurrent imports serialize instead of racing on the catalog;
// image jobs are independent and fan out over numImagens goroutines.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, h Handlers, numImagens int) {
	go runWorker(ctx, rdb, QueueIngestao, 0, h.Ingestao.Processar)
	for i := 0; i < numImagens; i++ {
		go runWorker(ctx, rdb, QueueImagens, i, h.Imagens.Processar)
	}
	log.Info().Int("imagens", numImagens).Msg("worker pool started")
}

func runWorker(ctx context.Context, rdb *redis.Client, queue string, id int, handle func(context.Context, json.RawMessage)) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("queue", queue).Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queue).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, queue, result[1], handle)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string, handle func(context.Context, json.RawMessage)) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "desconhecido", json.RawMessage(raw), "payload ilegível", 1)
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	handle(ctx, job.Payload)
}
