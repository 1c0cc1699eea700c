// Package client provides a transport-agnostic interface for the configs
// service with HTTP/JSON and gRPC implementations.
package client

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/configs/internal/model"
)

// ConfigsClient is the interface that all cfg CLI commands use to communicate
// with the server. It is implemented by HTTPClient (default) and GRPCClient.
type ConfigsClient interface {
	ListConfigurations(ctx context.Context) ([]*model.Configuration, error)
	GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error)
	CreateConfiguration(ctx context.Context, in *model.ConfigurationInput) (*model.Configuration, error)
	UpdateConfiguration(ctx context.Context, id int64, in *model.ConfigurationInput) (*model.Configuration, error)
	DeleteConfiguration(ctx context.Context, id int64) error

	GetToken(ctx context.Context, id int64) (string, error)
	DecodeToken(ctx context.Context, token string) (*model.Configuration, error)

	Health(ctx context.Context) (string, error)

	Close() error
}

// IsNotFound reports whether err is a not-found response from either transport.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return status.Code(err) == codes.NotFound
}

// IsUnauthorized reports whether err is an authentication failure, including
// a rejected configuration token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return status.Code(err) == codes.Unauthenticated
}
