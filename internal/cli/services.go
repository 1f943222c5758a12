package cli

import (
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/alvinbaena/pwd-analyzer/internal/evaluator"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// services is the evaluation pipeline shared by every command.
type services struct {
	cfg       config.Config
	client    *hibp.RangeClient
	checker   *hibp.Checker
	evaluator *evaluator.Evaluator
}

func loadServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	client, err := hibp.NewRangeClient(hibp.Options{
		BaseURL:   cfg.Lookup.URL,
		Timeout:   cfg.Lookup.Timeout,
		RetryMax:  cfg.Lookup.Retries,
		UserAgent: cfg.Lookup.UserAgent,
		Padding:   cfg.Lookup.Padding,
		CacheTTL:  cfg.Lookup.CacheTTL,
		CacheSize: cfg.Lookup.CacheSize,
		Proxy:     cfg.Lookup.Proxy,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing range client: %w", err)
	}

	if !cfg.Lookup.FailClosed {
		log.Debug().Msg("range API errors will be treated as not breached")
	}

	checker := hibp.NewChecker(client, hibp.FailClosed(cfg.Lookup.FailClosed))
	return &services{
		cfg:       cfg,
		client:    client,
		checker:   checker,
		evaluator: evaluator.New(checker),
	}, nil
}

func (s *services) Close() {
	s.client.LogSummary()
	s.client.Close()
}
