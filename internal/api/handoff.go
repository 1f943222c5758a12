package api

import (
	"errors"
	"github.com/alvinbaena/pwd-analyzer/internal/handoff"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"net/http"
)

type handoffApi struct {
	store handoff.Store
}

func (h *handoffApi) put(c *gin.Context) {
	var req handoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.store.Put(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, handoff.ErrFull) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("error storing handoff")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store password"})
		return
	}

	c.JSON(http.StatusCreated, handoffResponse{Token: token})
}

func (h *handoffApi) take(c *gin.Context) {
	password, err := h.store.Take(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, handoff.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("error taking handoff")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read password"})
		return
	}

	c.JSON(http.StatusOK, handoffRequest{Password: password})
}

func RegisterHandoffApi(group *gin.RouterGroup, store handoff.Store) {
	h := &handoffApi{store: store}

	group.POST("", h.put)
	group.POST("/:token/take", h.take)
}
