// Package server implements the configuration service and exposes it over
// HTTP and gRPC.
package server

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alfredjeanlab/configs/internal/events"
	"github.com/alfredjeanlab/configs/internal/rpc"
	"github.com/alfredjeanlab/configs/internal/store"
	"github.com/alfredjeanlab/configs/internal/token"
)

var _ rpc.ConfigurationServiceServer = (*ConfigServer)(nil)

// ConfigServer owns the configuration lifecycle. Transport handlers in this
// package are thin adapters over its unexported operations.
type ConfigServer struct {
	store     store.Store
	codec     *token.Codec
	publisher events.Publisher
	logger    *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics
}

// Option configures a ConfigServer.
type Option func(*ConfigServer)

// WithLogger sets the base logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *ConfigServer) { s.logger = l }
}

// WithRegistry sets the Prometheus registry metrics are registered on and
// served from. Defaults to a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *ConfigServer) { s.registry = r }
}

// NewConfigServer returns a ConfigServer backed by the given store, token
// codec and publisher. A nil publisher disables events.
func NewConfigServer(s store.Store, codec *token.Codec, p events.Publisher, opts ...Option) *ConfigServer {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	srv := &ConfigServer{
		store:     s,
		codec:     codec,
		publisher: p,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.registry == nil {
		srv.registry = prometheus.NewRegistry()
	}
	srv.metrics = newMetrics(srv.registry)
	return srv
}

// publish emits an event after commit. Failures are logged and swallowed.
func (s *ConfigServer) publish(ctx context.Context, topic string, id int64, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.log(ctx).Warn("failed to publish event", "topic", topic, "id", id, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }
