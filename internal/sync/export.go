// Package sync periodically exports every configuration as JSONL to backup
// destinations (S3, git). Tokens are never exported: they are reissued from
// the signing secret.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/alfredjeanlab/configs/internal/model"
)

// Source lists the configurations to export. store.Store satisfies it.
type Source interface {
	ListConfigurations(ctx context.Context) ([]*model.Configuration, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version            string    `json:"version"`
	Type               string    `json:"type"`
	UpdatedAt          time.Time `json:"updated_at"`
	ConfigurationCount int       `json:"configuration_count"`
	AssetCount         int       `json:"asset_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes a header line followed by one line per configuration,
// sorted by ID with assets embedded. The header carries the newest
// UpdatedAt rather than the wall clock, so an unchanged store produces
// byte-identical output.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	cfgs, err := src.ListConfigurations(ctx)
	if err != nil {
		return fmt.Errorf("list configurations: %w", err)
	}

	slices.SortFunc(cfgs, func(a, b *model.Configuration) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	h := header{Version: "1", Type: "header", ConfigurationCount: len(cfgs)}
	for _, c := range cfgs {
		h.AssetCount += len(c.Assets)
		if c.UpdatedAt.After(h.UpdatedAt) {
			h.UpdatedAt = c.UpdatedAt.UTC()
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for _, c := range cfgs {
		if err := enc.Encode(record{Type: "configuration", Data: c}); err != nil {
			return fmt.Errorf("encode configuration %d: %w", c.ID, err)
		}
	}
	return nil
}
