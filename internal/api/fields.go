package api

import (
	"github.com/alvinbaena/pwd-analyzer/internal/feedback"
	"github.com/gin-gonic/gin"
	"net/http"
)

type fieldsApi struct {
	overlays *feedback.Overlays
}

func (f *fieldsApi) input(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := f.overlays.Input(c.Param("field"), *req.Password); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusAccepted)
}

func (f *fieldsApi) get(c *gin.Context) {
	state, ok := f.overlays.Get(c.Param("field"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "field is not being watched"})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (f *fieldsApi) remove(c *gin.Context) {
	f.overlays.Remove(c.Param("field"))
	c.Status(http.StatusNoContent)
}

// RegisterFieldsApi exposes the per-field live feedback. Clients send the
// field text on every change and poll the state.
func RegisterFieldsApi(group *gin.RouterGroup, overlays *feedback.Overlays) {
	f := &fieldsApi{overlays: overlays}

	group.PUT("/:field", f.input)
	group.GET("/:field", f.get)
	group.DELETE("/:field", f.remove)
}
