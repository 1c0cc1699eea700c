package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/configs/internal/model"
)

// ErrNotFound is returned (possibly wrapped) when the requested configuration
// or token does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for configurations, their assets,
// and their tokens. Assets are always read and written through their owning
// configuration.
type Store interface {
	// Configurations
	ListConfigurations(ctx context.Context) ([]*model.Configuration, error)
	GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error)
	CreateConfiguration(ctx context.Context, c *model.Configuration) error
	// ReplaceConfiguration sets the name and merges assets: an asset whose ID
	// matches an existing asset of this configuration is overwritten, any
	// other asset is inserted. Existing assets missing from the input are kept.
	ReplaceConfiguration(ctx context.Context, id int64, name string, assets []*model.Asset) (*model.Configuration, error)
	// DeleteConfiguration removes the configuration and its assets. The
	// caller must delete the token first.
	DeleteConfiguration(ctx context.Context, id int64) error

	// Tokens
	GetToken(ctx context.Context, configurationID int64) (*model.Token, error)
	UpsertToken(ctx context.Context, configurationID int64, token string) (*model.Token, error)
	DeleteTokensFor(ctx context.Context, configurationID int64) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
