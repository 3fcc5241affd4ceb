package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/config"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/handler"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/middleware"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/pricing"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/repository"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/service"
	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, tabela *pricing.TabelaLogistica) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	produtoRepo := repository.NewProdutoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	tracker := worker.NewJobTracker(rdb)

	simulacaoSvc := service.NewSimulacaoService(produtoRepo, pricing.NovoMotor(tabela))
	catalogoSvc := service.NewCatalogoService(produtoRepo)
	importacaoSvc := service.NewImportacaoService(cfg.UploadsPath, dispatcher, tracker)

	// ── Handlers ─────────────────────────────────────────────────────────────
	simulacaoH := handler.NewSimulacaoHandler(simulacaoSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	importacaoH := handler.NewImportacaoHandler(importacaoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	// Imagens servidas direto do disco local
	r.Static("/static", cfg.ImagensPath)

	v1 := r.Group("/v1")
	{
		v1.POST("/simulacao", simulacaoH.Simular)

		v1.GET("/produtos", catalogoH.Listar)
		v1.GET("/produtos/:sku", catalogoH.ObterPorSKU)

		// Uploads pesados ganham um limite próprio, bem mais apertado.
		catalogo := v1.Group("/catalogo", middleware.RateLimiter(10, time.Minute))
		{
			catalogo.POST("/importar", importacaoH.ImportarPlanilha)
			catalogo.POST("/imagens", importacaoH.ImportarImagens)
		}

		v1.GET("/jobs/:id", importacaoH.StatusJob)
	}

	return r
}
