package api

import (
	"github.com/alvinbaena/pwd-analyzer/internal/feedback"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/gin-gonic/gin"
	"net/http"
)

// Version is set at build time.
var Version = "dev"

type StatsSource interface {
	Stats() hibp.Stats
}

func RegisterStatusApi(group *gin.RouterGroup, stats StatsSource, overlays *feedback.Overlays) {
	group.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, statusResponse{
			Lookup:  stats.Stats(),
			Fields:  overlays.Len(),
			Memory:  util.Memory(),
			Version: Version,
		})
	})
}
