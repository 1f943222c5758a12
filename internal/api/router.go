package api

import (
	"github.com/alvinbaena/pwd-analyzer/internal/evaluator"
	"github.com/alvinbaena/pwd-analyzer/internal/feedback"
	"github.com/alvinbaena/pwd-analyzer/internal/handoff"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"net/http"
)

// maxBodyBytes bounds every request body, the largest valid one is a few KB.
const maxBodyBytes = 16 << 10

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// Services are the dependencies of every API group.
type Services struct {
	Evaluator *evaluator.Evaluator
	Digests   DigestChecker
	Suggester Suggester
	Stats     StatsSource
	Overlays  *feedback.Overlays
	Handoff   handoff.Store
}

// NewRouter builds the gin engine with the v1 API. Request bodies are never
// logged, only the access line.
func NewRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))
	router.Use(limitBody(maxBodyBytes))

	v1 := router.Group("/v1")
	RegisterQueryApi(v1, s.Evaluator, s.Digests, s.Suggester)
	RegisterFieldsApi(v1.Group("/fields"), s.Overlays)
	RegisterHandoffApi(v1.Group("/handoff"), s.Handoff)
	RegisterStatusApi(v1, s.Stats, s.Overlays)

	return router
}
