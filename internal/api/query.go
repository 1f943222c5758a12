// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-analyzer/internal/evaluator"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"net/http"
)

type DigestChecker interface {
	IsDigestBreached(ctx context.Context, digest hibp.Digest) (bool, error)
}

type Suggester interface {
	Generate() string
}

type queryApi struct {
	evaluator *evaluator.Evaluator
	digests   DigestChecker
	suggester Suggester
}

func (q *queryApi) checkPassword(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := q.evaluator.Report(c.Request.Context(), req.Password, req.UserInputs...)
	if err != nil {
		if errors.Is(err, evaluator.ErrEvaluation) {
			log.Warn().Err(err).Msg("error evaluating password")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": evaluator.ErrEvaluation.Error()})
			return
		}
		// The client went away.
		c.Status(http.StatusRequestTimeout)
		return
	}

	c.JSON(http.StatusOK, queryResponse{
		Tier:       report.Tier,
		Reason:     report.Reason,
		Label:      report.Tier.Label(),
		Color:      report.Tier.Color(),
		Pwned:      report.Tier == strength.Breached,
		Strength:   &report.Estimation,
		Suggestion: report.Suggestion,
	})
}

func (q *queryApi) checkHash(c *gin.Context) {
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	digest, err := hibp.ParseDigest(req.Hash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := q.digests.IsDigestBreached(c.Request.Context(), digest)
	if err != nil {
		log.Warn().Err(err).Msg("error checking hash")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": evaluator.ErrEvaluation.Error()})
		return
	}

	c.JSON(http.StatusOK, hashResponse{Pwned: exists})
}

func (q *queryApi) suggest(c *gin.Context) {
	c.JSON(http.StatusOK, suggestResponse{Password: q.suggester.Generate()})
}

func RegisterQueryApi(group *gin.RouterGroup, e *evaluator.Evaluator, digests DigestChecker, suggester Suggester) {
	q := &queryApi{evaluator: e, digests: digests, suggester: suggester}

	group.POST("/check/password", q.checkPassword)
	group.POST("/check/hash", q.checkHash)
	group.GET("/suggest", q.suggest)
}
