package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/configs/internal/config"
	"github.com/alfredjeanlab/configs/internal/events"
	"github.com/alfredjeanlab/configs/internal/server"
	"github.com/alfredjeanlab/configs/internal/store/postgres"
	cfgsync "github.com/alfredjeanlab/configs/internal/sync"
	"github.com/alfredjeanlab/configs/internal/token"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the configs HTTP and gRPC server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// The server talks to Postgres directly; no API client is needed.
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		if envHelp, _ := cmd.Flags().GetBool("env-help"); envHelp {
			return config.Usage(cmd.OutOrStdout())
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		codec, err := token.New([]byte(cfg.TokenSecret),
			token.WithIssuer(cfg.TokenIssuer),
			token.WithTTL(cfg.TokenTTL),
		)
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("error closing store", "error", err)
			}
		}()

		var publisher events.Publisher
		if cfg.NatsURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NatsURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NatsURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (" + config.Prefix + "_NATS_URL not set)")
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("error closing publisher", "error", err)
			}
		}()

		if cfg.AuthToken == "" {
			logger.Warn("API authentication disabled (" + config.Prefix + "_AUTH_TOKEN not set)")
		}

		configServer := server.NewConfigServer(store, codec, publisher, server.WithLogger(logger))
		grpcServer := server.NewGRPCServer(configServer, cfg.AuthToken)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}

		errCh := make(chan error, 2)
		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           configServer.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scheduler := startSync(ctx, cfg, store, logger)

		logger.Info("configs server started", "grpc_addr", cfg.GRPCAddr, "http_addr", cfg.HTTPAddr)

		var serveErr error
		select {
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
		case serveErr = <-errCh:
			logger.Error("server error, shutting down", "error", serveErr)
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		logger.Info("HTTP server stopped")

		return serveErr
	},
}

// startSync starts the export scheduler when a destination is configured.
// Destinations that fail to initialize are logged and skipped.
func startSync(ctx context.Context, cfg *config.Config, src cfgsync.Source, logger *slog.Logger) *cfgsync.Scheduler {
	if !cfg.SyncEnabled() {
		return nil
	}

	var dests []cfgsync.Destination
	if cfg.SyncS3Bucket != "" {
		s3Dest, err := cfgsync.NewS3Destination(ctx, cfg.SyncS3Bucket, cfg.SyncS3Key, cfg.SyncS3Region, cfg.SyncS3Endpoint)
		if err != nil {
			logger.Error("failed to create S3 sync destination", "error", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
		}
	}
	if cfg.SyncGitRepo != "" {
		dests = append(dests, cfgsync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch))
		logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
	}
	if len(dests) == 0 {
		return nil
	}

	scheduler := cfgsync.NewScheduler(src, dests, cfg.SyncInterval, logger)
	scheduler.Start(ctx)
	logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
	return scheduler
}

func init() {
	serveCmd.Flags().Bool("env-help", false, "list the environment variables read by serve and exit")
}
