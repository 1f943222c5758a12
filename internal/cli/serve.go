// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/api"
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/alvinbaena/pwd-analyzer/internal/feedback"
	"github.com/alvinbaena/pwd-analyzer/internal/handoff"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/suggest"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"net/http"
	"time"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the password analysis API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand(cmd.Context())
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	serveCmd.Flags().Bool("self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	serveCmd.Flags().String("tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	serveCmd.Flags().String("tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	serveCmd.Flags().Uint16P("port", "p", 3100, "Port to be used by the server")
	serveCmd.Flags().Duration("debounce", feedback.DefaultDelay, "Time to wait after the last keystroke of a field before evaluating it")

	viper.BindPFlag("SERVER.SELF_TLS", serveCmd.Flags().Lookup("self-tls"))
	viper.BindPFlag("SERVER.TLS_CERT", serveCmd.Flags().Lookup("tls-cert"))
	viper.BindPFlag("SERVER.TLS_KEY", serveCmd.Flags().Lookup("tls-key"))
	viper.BindPFlag("SERVER.PORT", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("SERVER.DEBOUNCE", serveCmd.Flags().Lookup("debounce"))

	rootCmd.AddCommand(serveCmd)
}

func newHandoffStore(ctx context.Context, cfg config.HandoffConfig) (handoff.Store, error) {
	if cfg.RedisURL != "" {
		log.Info().Msg("using redis for password handoff")
		return handoff.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	}

	return handoff.NewMemoryStore(cfg.TTL, cfg.MaxEntries)
}

func serveCommand(ctx context.Context) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	svc, err := loadServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err = svc.cfg.ValidateServer(); err != nil {
		return err
	}

	if !verbose && !svc.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := newHandoffStore(ctx, svc.cfg.Handoff)
	if err != nil {
		return fmt.Errorf("error initializing handoff store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing handoff store")
		}
	}()

	// A field evaluation may retry the lookup, give it room for every attempt.
	overlays := feedback.NewOverlays(svc.evaluator, svc.cfg.Server.Debounce,
		svc.cfg.Lookup.Timeout*time.Duration(svc.cfg.Lookup.Retries+1))
	defer overlays.Close()

	router := api.NewRouter(api.Services{
		Evaluator: svc.evaluator,
		Digests:   svc.checker,
		Suggester: suggest.New(),
		Stats:     svc.client,
		Overlays:  overlays,
		Handoff:   store,
	})

	srvAddr := fmt.Sprintf(":%d", svc.cfg.Server.Port)
	srv := &http.Server{
		Addr:              srvAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listen(srv, svc.cfg.Server)
	}()

	select {
	case err = <-serveErr:
		return err
	case <-ctx.Done():
	}

	gracefulShutdown(srv)
	return nil
}

func listen(srv *http.Server, cfg config.ServerConfig) error {
	log.Info().Msgf("starting TLS Server on address: %s", srv.Addr)
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		// service connections with tls certs
		if err := srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	}

	log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
	pair, err := selfSignedPair()
	if err != nil {
		return err
	}

	srv.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}

	// service connections with tls config, no need to pass files
	if err = srv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error starting server: %w", err)
	}
	return nil
}

func selfSignedPair() (tls.Certificate, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		// 30 day self-signed cert.
		NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("error generating auto self-signed certificate: %w", err)
	}

	pair, err := tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("error using auto self-signed certificate: %w", err)
	}

	return pair, nil
}

func gracefulShutdown(srv *http.Server) {
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}

	log.Info().Msg("server exiting...")
}
