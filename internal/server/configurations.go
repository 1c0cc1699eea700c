package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/configs/internal/events"
	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/store"
	"github.com/alfredjeanlab/configs/internal/token"
)

// errMissingToken is returned by decodeToken for an empty token string.
var errMissingToken = fmt.Errorf("%w: token is required", token.ErrInvalid)

func validateInput(in *model.ConfigurationInput) error {
	if in == nil {
		return inputError("request body is required")
	}
	if err := model.ValidateConfigurationInput(in); err != nil {
		return inputError("invalid configuration: " + err.Error())
	}
	return nil
}

// listConfigurations returns every configuration with its assets.
func (s *ConfigServer) listConfigurations(ctx context.Context) ([]*model.Configuration, error) {
	cfgs, err := s.store.ListConfigurations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	if cfgs == nil {
		cfgs = []*model.Configuration{}
	}
	return cfgs, nil
}

// getConfiguration returns one configuration or a wrapped store.ErrNotFound.
func (s *ConfigServer) getConfiguration(ctx context.Context, id int64) (*model.Configuration, error) {
	cfg, err := s.store.GetConfiguration(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return cfg, nil
}

// issueToken signs cfg and stores the token, replacing any previous one.
func (s *ConfigServer) issueToken(ctx context.Context, tx store.Store, cfg *model.Configuration) error {
	raw, err := s.codec.Encode(cfg)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if _, err := tx.UpsertToken(ctx, cfg.ID, raw); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// createConfiguration persists a configuration, its assets and its token as
// one unit of work, then publishes a created event.
func (s *ConfigServer) createConfiguration(ctx context.Context, in *model.ConfigurationInput) (*model.Configuration, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	cfg := &model.Configuration{Name: in.Name, Assets: in.Assets}
	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateConfiguration(ctx, cfg); err != nil {
			return fmt.Errorf("create configuration: %w", err)
		}
		return s.issueToken(ctx, tx, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("created configuration", "id", cfg.ID, "name", cfg.Name, "assets", len(cfg.Assets))
	s.publish(ctx, events.TopicConfigurationCreated, cfg.ID, events.ConfigurationCreated{Configuration: cfg})
	return cfg, nil
}

// updateConfiguration renames the configuration, merges its assets and
// replaces its token. Assets absent from the input are kept.
func (s *ConfigServer) updateConfiguration(ctx context.Context, id int64, in *model.ConfigurationInput) (*model.Configuration, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var cfg *model.Configuration
	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetConfiguration(ctx, id); err != nil {
			return fmt.Errorf("get configuration: %w", err)
		}
		updated, err := tx.ReplaceConfiguration(ctx, id, in.Name, in.Assets)
		if err != nil {
			return fmt.Errorf("replace configuration: %w", err)
		}
		if err := s.issueToken(ctx, tx, updated); err != nil {
			return err
		}
		cfg = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("updated configuration", "id", cfg.ID, "assets", len(cfg.Assets))
	s.publish(ctx, events.TopicConfigurationUpdated, cfg.ID, events.ConfigurationUpdated{Configuration: cfg})
	return cfg, nil
}

// deleteConfiguration removes the token, then the configuration and its
// assets.
func (s *ConfigServer) deleteConfiguration(ctx context.Context, id int64) error {
	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetConfiguration(ctx, id); err != nil {
			return fmt.Errorf("get configuration: %w", err)
		}
		if err := tx.DeleteTokensFor(ctx, id); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		if err := tx.DeleteConfiguration(ctx, id); err != nil {
			return fmt.Errorf("delete configuration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("deleted configuration", "id", id)
	s.publish(ctx, events.TopicConfigurationDeleted, id, events.ConfigurationDeleted{ID: id})
	return nil
}

// getToken returns the stored token of a configuration.
func (s *ConfigServer) getToken(ctx context.Context, id int64) (*model.Token, error) {
	tok, err := s.store.GetToken(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	return tok, nil
}

// decodeToken verifies raw and returns the live configuration it names.
// The decoded ID is only trusted after the store confirms it exists.
func (s *ConfigServer) decodeToken(ctx context.Context, raw string) (*model.Configuration, error) {
	if raw == "" {
		return nil, errMissingToken
	}
	id, err := s.codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	cfg, err := s.store.GetConfiguration(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return cfg, nil
}

// health reports whether the store is reachable.
func (s *ConfigServer) health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unavailable: %w", err)
	}
	return nil
}

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }

func isInvalidToken(err error) bool { return errors.Is(err, token.ErrInvalid) }

func isExpired(err error) bool { return errors.Is(err, token.ErrExpired) }

func isInputError(err error) (inputError, bool) {
	var ie inputError
	ok := errors.As(err, &ie)
	return ie, ok
}
