package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/token"
)

var testSecret = []byte("server-test-secret-0123456789abcdef")

// newTestServer returns a ConfigServer over a fresh mock store with a
// recording publisher and a discarded logger.
func newTestServer(t *testing.T, opts ...token.Option) (*ConfigServer, *mockStore, *recordingPublisher) {
	t.Helper()
	codec, err := token.New(testSecret, opts...)
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	ms := newMockStore()
	pub := &recordingPublisher{}
	srv := NewConfigServer(ms, codec, pub, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return srv, ms, pub
}

// mustCreate creates a configuration through the service.
func mustCreate(t *testing.T, srv *ConfigServer, name string, assets ...*model.Asset) *model.Configuration {
	t.Helper()
	if assets == nil {
		assets = []*model.Asset{}
	}
	cfg, err := srv.createConfiguration(context.Background(), &model.ConfigurationInput{Name: name, Assets: assets})
	if err != nil {
		t.Fatalf("createConfiguration(%q): %v", name, err)
	}
	return cfg
}

func asset(typ, value string) *model.Asset {
	return &model.Asset{AssetType: typ, AssetValue: value}
}

func TestNewConfigServer_NilPublisher(t *testing.T) {
	codec, err := token.New(testSecret)
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	srv := NewConfigServer(newMockStore(), codec, nil)
	cfg, err := srv.createConfiguration(context.Background(), &model.ConfigurationInput{Name: "a", Assets: []*model.Asset{}})
	if err != nil {
		t.Fatalf("createConfiguration: %v", err)
	}
	if cfg.ID == 0 {
		t.Fatal("expected assigned ID")
	}
}

func TestInputError(t *testing.T) {
	err := validateInput(&model.ConfigurationInput{Assets: []*model.Asset{}})
	ie, ok := isInputError(err)
	if !ok {
		t.Fatalf("expected inputError, got %T %v", err, err)
	}
	if ie.Error() != "invalid configuration: validation failed: name: is required" {
		t.Errorf("unexpected message %q", ie.Error())
	}
	if _, ok := isInputError(errors.New("other")); ok {
		t.Error("plain error classified as input error")
	}
}
