package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/LeoGravina/sistema-solicitacoes-itatiaia-sub000/internal/apierror"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

const purgeInterval = 5 * time.Minute

// RateLimiter returns a sliding-window rate limiter with its own per-IP map,
// so the global limit and the tighter upload limit count independently.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	var (
		entries   = make(map[string]*rateEntry)
		entriesMu sync.Mutex
	)

	// Expired IPs are purged periodically so the map doesn't grow without
	// bound on IPs that never return.
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			entriesMu.Lock()
			purged := 0
			for ip, entry := range entries {
				entry.mu.Lock()
				if now.After(entry.windowEnd) {
					delete(entries, ip)
					purged++
				}
				entry.mu.Unlock()
			}
			restante := len(entries)
			entriesMu.Unlock()
			if purged > 0 {
				log.Debug().
					Int("purged", purged).
					Int("remaining", restante).
					Msg("rate limiter map purged")
			}
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		entriesMu.Lock()
		entry, exists := entries[ip]
		if !exists {
			entry = &rateEntry{}
			entries[ip] = entry
		}
		entriesMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas requisições. Tente novamente em instantes."))
			return
		}
		c.Next()
	}
}
