package router

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"etegie-bot/backend/pkg/di"
	"etegie-bot/backend/pkg/health"

	"github.com/gin-gonic/gin"
)

func newChecker(c *di.Container) *health.Checker {
	checker := health.NewChecker(c.Logger, 30*time.Second)
	checker.RegisterDatabaseCheck(c.Store.Ping)
	checker.RegisterDependencyCheck("sessions", c.Sessions.Ping)
	if p, ok := c.Responder.(di.Pinger); ok {
		checker.RegisterDependencyCheck("remote-api", p.Ping)
	}
	return checker
}

// setupHealthRoutes registers health check endpoints
func (r *Router) setupHealthRoutes() {
	healthHandler := func(c *gin.Context) {
		status := http.StatusOK
		overall := "ok"
		if !r.Health.IsSystemHealthy() {
			status = http.StatusServiceUnavailable
			overall = "unavailable"
		}

		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		c.JSON(status, gin.H{
			"status":     overall,
			"version":    os.Getenv("APP_VERSION"),
			"timestamp":  time.Now().Format(time.RFC3339),
			"uptime_s":   int64(time.Since(startTime).Seconds()),
			"components": r.Health.GetStatus(),
			"websocket": gin.H{
				"active_connections": r.Container.Hub.ActiveConnections(),
			},
			"memory": gin.H{
				"alloc_mb":  memStats.Alloc / 1024 / 1024,
				"sys_mb":    memStats.Sys / 1024 / 1024,
				"gc_cycles": memStats.NumGC,
			},
		})
	}

	// Register both health endpoint paths for compatibility
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/health", healthHandler)
}
