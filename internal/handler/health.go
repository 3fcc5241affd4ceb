package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/worker"
)

// Health reports DB and Redis connectivity. Redis down means import jobs
// cannot be enqueued, so it degrades the check the same way the DB does.
// The DLQ depths surface jobs parked for manual inspection.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		var dlqIngestao, dlqImagens int64
		if redisStatus == "connected" {
			dlqIngestao, _ = worker.DLQLength(ctx, rdb, worker.QueueIngestao)
			dlqImagens, _ = worker.DLQLength(ctx, rdb, worker.QueueImagens)
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"dlq": gin.H{
				"ingestao": dlqIngestao,
				"imagens":  dlqImagens,
			},
		})
	}
}
