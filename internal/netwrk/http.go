package netwrk

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pongsim/internal/pong"
)

// Router serves the session over HTTP:
//
//	GET /healthz  liveness plus connection counts
//	GET /state    the latest snapshot as JSON
//	GET /ws       WebSocket stream of snapshots
func Router(session *pong.Session, srv *Server, viewers *Viewers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	started := time.Now()
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"session": session.ID.String(),
			"clients": srv.ClientCount(),
			"viewers": viewers.Count(),
			"uptime":  time.Since(started).String(),
		})
	})

	router.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, session.Snapshot())
	})

	router.GET("/ws", func(c *gin.Context) {
		viewers.ServeWS(c.Writer, c.Request)
	})

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)))
	}
}
