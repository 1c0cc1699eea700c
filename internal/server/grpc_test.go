package server

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/rpc"
)

// startBufconnServer serves srv over an in-memory listener and returns a
// connected client.
func startBufconnServer(t *testing.T, srv *ConfigServer, authToken string) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := NewGRPCServer(srv, authToken)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// requireCode asserts that err is a gRPC error with the given status code.
func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected gRPC error with code %v, got nil", code)
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected gRPC status error, got %v", err)
	}
	if st.Code() != code {
		t.Fatalf("expected code=%v, got %v (%s)", code, st.Code(), st.Message())
	}
}

func TestGRPC_EndToEnd(t *testing.T) {
	srv, _, _ := newTestServer(t)
	client := rpc.NewConfigurationServiceClient(startBufconnServer(t, srv, ""))
	ctx := context.Background()

	created, err := client.CreateConfiguration(ctx, &rpc.CreateConfigurationRequest{
		Name:   "A",
		Assets: []*model.Asset{{AssetType: "k", AssetValue: "v"}},
	})
	if err != nil {
		t.Fatalf("CreateConfiguration: %v", err)
	}
	id := created.Configuration.ID

	tok, err := client.GetToken(ctx, &rpc.GetTokenRequest{ID: id})
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}

	decoded, err := client.DecodeToken(ctx, &rpc.DecodeTokenRequest{Token: tok.Token})
	if err != nil {
		t.Fatalf("DecodeToken: %v", err)
	}
	if decoded.Configuration.ID != id || decoded.Configuration.Name != "A" {
		t.Fatalf("unexpected decoded configuration %+v", decoded.Configuration)
	}

	updated, err := client.UpdateConfiguration(ctx, &rpc.UpdateConfigurationRequest{ID: id, Name: "B", Assets: []*model.Asset{}})
	if err != nil {
		t.Fatalf("UpdateConfiguration: %v", err)
	}
	if updated.Configuration.Name != "B" || len(updated.Configuration.Assets) != 1 {
		t.Fatalf("unexpected update %+v", updated.Configuration)
	}

	list, err := client.ListConfigurations(ctx, &rpc.ListConfigurationsRequest{})
	if err != nil {
		t.Fatalf("ListConfigurations: %v", err)
	}
	if len(list.Configurations) != 1 {
		t.Fatalf("expected 1 configuration, got %d", len(list.Configurations))
	}

	if _, err := client.DeleteConfiguration(ctx, &rpc.DeleteConfigurationRequest{ID: id}); err != nil {
		t.Fatalf("DeleteConfiguration: %v", err)
	}
	_, err = client.DecodeToken(ctx, &rpc.DecodeTokenRequest{Token: tok.Token})
	requireCode(t, err, codes.NotFound)
}

func TestGRPCErrorCodes(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	client := rpc.NewConfigurationServiceClient(startBufconnServer(t, srv, ""))
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		call func() error
		code codes.Code
	}{
		{"Get/NotFound", func() error {
			_, err := client.GetConfiguration(ctx, &rpc.GetConfigurationRequest{ID: 404})
			return err
		}, codes.NotFound},
		{"Create/MissingName", func() error {
			_, err := client.CreateConfiguration(ctx, &rpc.CreateConfigurationRequest{Assets: []*model.Asset{}})
			return err
		}, codes.InvalidArgument},
		{"Create/MissingAssets", func() error {
			_, err := client.CreateConfiguration(ctx, &rpc.CreateConfigurationRequest{Name: "x"})
			return err
		}, codes.InvalidArgument},
		{"Update/NotFound", func() error {
			_, err := client.UpdateConfiguration(ctx, &rpc.UpdateConfigurationRequest{ID: 404, Name: "x", Assets: []*model.Asset{}})
			return err
		}, codes.NotFound},
		{"Delete/NotFound", func() error {
			_, err := client.DeleteConfiguration(ctx, &rpc.DeleteConfigurationRequest{ID: 404})
			return err
		}, codes.NotFound},
		{"GetToken/NotFound", func() error {
			_, err := client.GetToken(ctx, &rpc.GetTokenRequest{ID: 404})
			return err
		}, codes.NotFound},
		{"Decode/Empty", func() error {
			_, err := client.DecodeToken(ctx, &rpc.DecodeTokenRequest{})
			return err
		}, codes.Unauthenticated},
		{"Decode/Garbage", func() error {
			_, err := client.DecodeToken(ctx, &rpc.DecodeTokenRequest{Token: "a.b.c"})
			return err
		}, codes.Unauthenticated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			requireCode(t, tc.call(), tc.code)
		})
	}

	ms.listErr = errors.New("boom")
	_, err := client.ListConfigurations(ctx, &rpc.ListConfigurationsRequest{})
	requireCode(t, err, codes.Internal)

	ms.pingErr = errors.New("down")
	_, err = client.Health(ctx, &rpc.HealthRequest{})
	requireCode(t, err, codes.Unavailable)
}

func TestGRPC_AuthAndHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	conn := startBufconnServer(t, srv, "api-secret")
	client := rpc.NewConfigurationServiceClient(conn)
	ctx := context.Background()

	_, err := client.ListConfigurations(ctx, &rpc.ListConfigurationsRequest{})
	requireCode(t, err, codes.Unauthenticated)

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer api-secret")
	if _, err := client.ListConfigurations(authed, &rpc.ListConfigurationsRequest{}); err != nil {
		t.Fatalf("authorized ListConfigurations: %v", err)
	}

	resp, err := client.Health(ctx, &rpc.HealthRequest{})
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	if err != nil {
		t.Fatalf("health Check: %v", err)
	}
	if hc.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("health status = %v", hc.GetStatus())
	}
}
