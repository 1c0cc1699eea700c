package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/store"
)

// mockStore is an in-memory store.Store. RunInTransaction snapshots state and
// restores it when fn fails, so rollback behaviour can be asserted.
type mockStore struct {
	mu          sync.Mutex
	configs     map[int64]*model.Configuration
	tokens      map[int64]*model.Token
	nextID      int64
	nextAssetID int64
	inTx        bool

	// Fault injection.
	upsertTokenErr error
	pingErr        error
	listErr        error
}

func newMockStore() *mockStore {
	return &mockStore{
		configs: make(map[int64]*model.Configuration),
		tokens:  make(map[int64]*model.Token),
	}
}

func cloneConfiguration(c *model.Configuration) *model.Configuration {
	out := *c
	out.Assets = make([]*model.Asset, len(c.Assets))
	for i, a := range c.Assets {
		ac := *a
		out.Assets[i] = &ac
	}
	return &out
}

func (m *mockStore) ListConfigurations(_ context.Context) ([]*model.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.Configuration, 0, len(m.configs))
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.configs[id]; ok {
			out = append(out, cloneConfiguration(c))
		}
	}
	return out, nil
}

func (m *mockStore) GetConfiguration(_ context.Context, id int64) (*model.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[id]
	if !ok {
		return nil, fmt.Errorf("configuration %d: %w", id, store.ErrNotFound)
	}
	return cloneConfiguration(c), nil
}

func (m *mockStore) CreateConfiguration(_ context.Context, c *model.Configuration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	c.ID = m.nextID
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Assets == nil {
		c.Assets = []*model.Asset{}
	}
	for _, a := range c.Assets {
		m.nextAssetID++
		a.ID = m.nextAssetID
		a.ConfigurationID = c.ID
	}
	m.configs[c.ID] = cloneConfiguration(c)
	return nil
}

func (m *mockStore) ReplaceConfiguration(_ context.Context, id int64, name string, assets []*model.Asset) (*model.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[id]
	if !ok {
		return nil, fmt.Errorf("configuration %d: %w", id, store.ErrNotFound)
	}
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	for _, in := range assets {
		merged := false
		if in.ID > 0 {
			for _, existing := range c.Assets {
				if existing.ID == in.ID {
					existing.AssetType = in.AssetType
					existing.AssetValue = in.AssetValue
					merged = true
					break
				}
			}
		}
		if !merged {
			m.nextAssetID++
			c.Assets = append(c.Assets, &model.Asset{
				ID:              m.nextAssetID,
				AssetType:       in.AssetType,
				AssetValue:      in.AssetValue,
				ConfigurationID: id,
			})
		}
	}
	return cloneConfiguration(c), nil
}

func (m *mockStore) DeleteConfiguration(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.configs[id]; !ok {
		return fmt.Errorf("configuration %d: %w", id, store.ErrNotFound)
	}
	// Mirrors the tokens foreign key, which has no cascade.
	if _, ok := m.tokens[id]; ok {
		return errors.New("violates foreign key constraint tokens_configuration_id_fkey")
	}
	delete(m.configs, id)
	return nil
}

func (m *mockStore) GetToken(_ context.Context, configurationID int64) (*model.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[configurationID]
	if !ok {
		return nil, fmt.Errorf("token for configuration %d: %w", configurationID, store.ErrNotFound)
	}
	tc := *t
	return &tc, nil
}

func (m *mockStore) UpsertToken(_ context.Context, configurationID int64, raw string) (*model.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertTokenErr != nil {
		return nil, m.upsertTokenErr
	}
	if _, ok := m.configs[configurationID]; !ok {
		return nil, errors.New("violates foreign key constraint tokens_configuration_id_fkey")
	}
	now := time.Now().UTC()
	t, ok := m.tokens[configurationID]
	if !ok {
		t = &model.Token{ConfigurationID: configurationID, CreatedAt: now}
		m.tokens[configurationID] = t
	}
	t.Token = raw
	t.UpdatedAt = now
	tc := *t
	return &tc, nil
}

func (m *mockStore) DeleteTokensFor(_ context.Context, configurationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, configurationID)
	return nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	m.mu.Lock()
	if m.inTx {
		m.mu.Unlock()
		return fn(m)
	}
	m.inTx = true
	configs := make(map[int64]*model.Configuration, len(m.configs))
	for id, c := range m.configs {
		configs[id] = cloneConfiguration(c)
	}
	tokens := make(map[int64]*model.Token, len(m.tokens))
	for id, t := range m.tokens {
		tc := *t
		tokens[id] = &tc
	}
	nextID, nextAssetID := m.nextID, m.nextAssetID
	m.mu.Unlock()

	err := fn(m)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inTx = false
	if err != nil {
		m.configs, m.tokens = configs, tokens
		m.nextID, m.nextAssetID = nextID, nextAssetID
	}
	return err
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) Close() error { return nil }

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
