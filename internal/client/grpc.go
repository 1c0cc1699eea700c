package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/rpc"
)

// GRPCClient implements ConfigsClient using the gRPC transport.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client *rpc.ConfigurationServiceClient
	token  string
}

// NewGRPCClient connects to the given gRPC address and returns a client.
// When token is non-empty it is sent as bearer authorization metadata.
func NewGRPCClient(addr, token string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{
		conn:   conn,
		client: rpc.NewConfigurationServiceClient(conn),
		token:  token,
	}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) ctx(ctx context.Context) context.Context {
	if c.token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}

func (c *GRPCClient) ListConfigurations(ctx context.Context) ([]*model.Configuration, error) {
	resp, err := c.client.ListConfigurations(c.ctx(ctx), &rpc.ListConfigurationsRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Configurations, nil
}

func (c *GRPCClient) GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error) {
	resp, err := c.client.GetConfiguration(c.ctx(ctx), &rpc.GetConfigurationRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Configuration, nil
}

func (c *GRPCClient) CreateConfiguration(ctx context.Context, in *model.ConfigurationInput) (*model.Configuration, error) {
	resp, err := c.client.CreateConfiguration(c.ctx(ctx), &rpc.CreateConfigurationRequest{Name: in.Name, Assets: in.Assets})
	if err != nil {
		return nil, err
	}
	return resp.Configuration, nil
}

func (c *GRPCClient) UpdateConfiguration(ctx context.Context, id int64, in *model.ConfigurationInput) (*model.Configuration, error) {
	resp, err := c.client.UpdateConfiguration(c.ctx(ctx), &rpc.UpdateConfigurationRequest{ID: id, Name: in.Name, Assets: in.Assets})
	if err != nil {
		return nil, err
	}
	return resp.Configuration, nil
}

func (c *GRPCClient) DeleteConfiguration(ctx context.Context, id int64) error {
	_, err := c.client.DeleteConfiguration(c.ctx(ctx), &rpc.DeleteConfigurationRequest{ID: id})
	return err
}

func (c *GRPCClient) GetToken(ctx context.Context, id int64) (string, error) {
	resp, err := c.client.GetToken(c.ctx(ctx), &rpc.GetTokenRequest{ID: id})
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *GRPCClient) DecodeToken(ctx context.Context, token string) (*model.Configuration, error) {
	resp, err := c.client.DecodeToken(c.ctx(ctx), &rpc.DecodeTokenRequest{Token: token})
	if err != nil {
		return nil, err
	}
	return resp.Configuration, nil
}

func (c *GRPCClient) Health(ctx context.Context) (string, error) {
	resp, err := c.client.Health(c.ctx(ctx), &rpc.HealthRequest{})
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}
