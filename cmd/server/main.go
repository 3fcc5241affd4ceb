package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/config"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/imagens"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/infra"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/ingestao"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/router"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	blob, err := infra.NovoDiscoStorage(cfg.ImagensPath, cfg.BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init image storage")
	}
	if err := os.MkdirAll(cfg.UploadsPath, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to init uploads dir")
	}

	produtoRepo := repository.NewProdutoRepository(db)
	regrasRepo := repository.NewRegrasLogisticaRepository(db)

	// A tabela de descontos logísticos vive em memória e é trocada inteira a
	// cada ingestão; na subida ela é semeada com o que está persistido.
	tabela := pricing.NovaTabelaLogistica()
	regras, err := regrasRepo.Obter(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load logistics rules")
	}
	tabela.Substituir(regras)
	log.Info().Int("regras", tabela.Tamanho()).Msg("tabela logística carregada")

	// Worker pool for async imports. Handlers are wired here (composition
	// root) so the pool has full access to the infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := worker.NewJobTracker(rdb)
	handlers := worker.Handlers{
		Ingestao: worker.NewIngestaoWorker(rdb, produtoRepo, regrasRepo, tabela, tracker, ingestao.Opcoes{
			LoteMaxOps:      cfg.LoteMaxOps,
			PausaEntreLotes: cfg.LotePausa(),
		}),
		Imagens: worker.NewImagensWorker(rdb, produtoRepo, blob, tracker, imagens.Opcoes{
			LoteMaxOps:      cfg.LoteMaxOps,
			PausaEntreLotes: cfg.LotePausa(),
		}),
	}
	worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, tabela)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
		// Uploads de planilha e de lotes de imagens são grandes; os timeouts
		// de leitura e escrita acompanham.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("catálogo Itatiaia listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
