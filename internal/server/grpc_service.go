package server

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/rpc"
)

// rpcError maps service errors to gRPC status codes.
func (s *ConfigServer) rpcError(ctx context.Context, err error) error {
	if ie, ok := isInputError(err); ok {
		return status.Error(codes.InvalidArgument, ie.Error())
	}
	switch {
	case isNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case isInvalidToken(err):
		msg := "invalid token"
		if isExpired(err) {
			msg = "token expired"
		}
		return status.Error(codes.Unauthenticated, msg)
	default:
		s.log(ctx).Error("rpc failed", "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
}

// ListConfigurations returns every configuration.
func (s *ConfigServer) ListConfigurations(ctx context.Context, _ *rpc.ListConfigurationsRequest) (*rpc.ListConfigurationsResponse, error) {
	cfgs, err := s.listConfigurations(ctx)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return &rpc.ListConfigurationsResponse{Configurations: cfgs}, nil
}

// GetConfiguration returns one configuration by ID.
func (s *ConfigServer) GetConfiguration(ctx context.Context, req *rpc.GetConfigurationRequest) (*rpc.GetConfigurationResponse, error) {
	cfg, err := s.getConfiguration(ctx, req.ID)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return &rpc.GetConfigurationResponse{Configuration: cfg}, nil
}

// CreateConfiguration creates a configuration and issues its token.
func (s *ConfigServer) CreateConfiguration(ctx context.Context, req *rpc.CreateConfigurationRequest) (*rpc.CreateConfigurationResponse, error) {
	cfg, err := s.createConfiguration(ctx, &model.ConfigurationInput{Name: req.Name, Assets: req.Assets})
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return &rpc.CreateConfigurationResponse{Configuration: cfg}, nil
}

// UpdateConfiguration renames a configuration, merges its assets and
// reissues its token.
func (s *ConfigServer) UpdateConfiguration(ctx context.Context, req *rpc.UpdateConfigurationRequest) (*rpc.UpdateConfigurationResponse, error) {
	cfg, err := s.updateConfiguration(ctx, req.ID, &model.ConfigurationInput{Name: req.Name, Assets: req.Assets})
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return &rpc.UpdateConfigurationResponse{Configuration: cfg}, nil
}

// DeleteConfiguration removes a configuration with its assets and token.
func (s *ConfigServer) DeleteConfiguration(ctx context.Context, req *rpc.DeleteConfigurationRequest) (*rpc.DeleteConfigurationResponse, error) {
	if err := s.deleteConfiguration(ctx, req.ID); err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return &rpc.DeleteConfigurationResponse{}, nil
}

// GetToken returns the current token of a configuration.
func (s *ConfigServer) GetToken(ctx context.Context, req *rpc.GetTokenRequest) (*rpc.GetTokenResponse, error) {
	tok, err := s.getToken(ctx, req.ID)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return &rpc.GetTokenResponse{Token: tok.Token}, nil
}

// DecodeToken resolves a token to its live configuration.
func (s *ConfigServer) DecodeToken(ctx context.Context, req *rpc.DecodeTokenRequest) (*rpc.DecodeTokenResponse, error) {
	cfg, err := s.decodeToken(ctx, req.Token)
	if err != nil {
		return nil, s.rpcError(ctx, err)
	}
	return &rpc.DecodeTokenResponse{Configuration: cfg}, nil
}

// Health reports serving status, pinging the store.
func (s *ConfigServer) Health(ctx context.Context, _ *rpc.HealthRequest) (*rpc.HealthResponse, error) {
	if err := s.health(ctx); err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &rpc.HealthResponse{Status: "ok"}, nil
}
