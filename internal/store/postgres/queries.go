package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/configs/internal/model"
	"github.com/alfredjeanlab/configs/internal/store"
)

// configurationColumns is the column list used for SELECT statements on the configurations table.
const configurationColumns = `id, name, created_at, updated_at`

// assetColumns is the column list used for SELECT statements on the assets table.
const assetColumns = `id, asset_type, asset_value, configuration_id`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, store.ErrNotFound)
}

func queryListConfigurations(ctx context.Context, db executor) ([]*model.Configuration, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+configurationColumns+` FROM configurations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	configs, err := scanConfigurations(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("scan configurations: %w", err)
	}
	if len(configs) == 0 {
		return configs, nil
	}

	// One pass over all assets rather than one query per configuration.
	assetRows, err := db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY configuration_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer assetRows.Close()
	assets, err := scanAssets(assetRows)
	if err != nil {
		return nil, fmt.Errorf("scan assets: %w", err)
	}

	byID := make(map[int64]*model.Configuration, len(configs))
	for _, c := range configs {
		byID[c.ID] = c
	}
	for _, a := range assets {
		if c, ok := byID[a.ConfigurationID]; ok {
			c.Assets = append(c.Assets, a)
		}
	}
	return configs, nil
}

func queryGetConfiguration(ctx context.Context, db executor, id int64) (*model.Configuration, error) {
	row := db.QueryRowContext(ctx, `SELECT `+configurationColumns+` FROM configurations WHERE id = $1`, id)
	c, err := scanConfiguration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("configuration", id)
	}
	if err != nil {
		return nil, err
	}

	assets, err := queryGetAssets(ctx, db, id)
	if err != nil {
		return nil, err
	}
	c.Assets = assets

	return c, nil
}

func queryGetAssets(ctx context.Context, db executor, configurationID int64) ([]*model.Asset, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+assetColumns+`
		FROM assets
		WHERE configuration_id = $1
		ORDER BY id ASC`,
		configurationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

// queryCreateConfiguration inserts the configuration and all of its assets,
// filling in the store-assigned IDs. Asset IDs supplied by the caller are
// ignored. Callers are responsible for running it inside a transaction.
func queryCreateConfiguration(ctx context.Context, db executor, c *model.Configuration) error {
	err := db.QueryRowContext(ctx, `
		INSERT INTO configurations (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at`,
		c.Name,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert configuration: %w", err)
	}

	if c.Assets == nil {
		c.Assets = []*model.Asset{}
	}
	for _, a := range c.Assets {
		if err := queryInsertAsset(ctx, db, c.ID, a); err != nil {
			return err
		}
	}
	return nil
}

func queryInsertAsset(ctx context.Context, db executor, configurationID int64, a *model.Asset) error {
	a.ConfigurationID = configurationID
	err := db.QueryRowContext(ctx, `
		INSERT INTO assets (asset_type, asset_value, configuration_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		a.AssetType, a.AssetValue, configurationID,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// queryReplaceConfiguration renames the configuration and upserts the given
// assets. Only assets owned by this configuration can be matched by ID; an
// unknown or foreign ID results in a fresh insert. Assets not listed are left
// untouched.
func queryReplaceConfiguration(ctx context.Context, db executor, id int64, name string, assets []*model.Asset) (*model.Configuration, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE configurations SET name = $2, updated_at = NOW()
		WHERE id = $1`,
		id, name,
	)
	if err != nil {
		return nil, fmt.Errorf("update configuration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, notFound("configuration", id)
	}

	for _, a := range assets {
		if a.ID > 0 {
			updated, err := queryUpdateAsset(ctx, db, id, a)
			if err != nil {
				return nil, err
			}
			if updated {
				continue
			}
		}
		if err := queryInsertAsset(ctx, db, id, a); err != nil {
			return nil, err
		}
	}

	return queryGetConfiguration(ctx, db, id)
}

// queryUpdateAsset overwrites an asset of the given configuration in place and
// reports whether a row matched.
func queryUpdateAsset(ctx context.Context, db executor, configurationID int64, a *model.Asset) (bool, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE assets SET asset_type = $1, asset_value = $2
		WHERE id = $3 AND configuration_id = $4`,
		a.AssetType, a.AssetValue, a.ID, configurationID,
	)
	if err != nil {
		return false, fmt.Errorf("update asset %d: %w", a.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func queryDeleteConfiguration(ctx context.Context, db executor, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM configurations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound("configuration", id)
	}
	return nil
}

func queryGetToken(ctx context.Context, db executor, configurationID int64) (*model.Token, error) {
	row := db.QueryRowContext(ctx, `
		SELECT configuration_id, token, created_at, updated_at
		FROM tokens WHERE configuration_id = $1`, configurationID)
	t, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("token for configuration", configurationID)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func queryUpsertToken(ctx context.Context, db executor, configurationID int64, token string) (*model.Token, error) {
	t := &model.Token{ConfigurationID: configurationID, Token: token}
	err := db.QueryRowContext(ctx, `
		INSERT INTO tokens (configuration_id, token)
		VALUES ($1, $2)
		ON CONFLICT (configuration_id) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()
		RETURNING created_at, updated_at`,
		configurationID, token,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert token: %w", err)
	}
	return t, nil
}

func queryDeleteTokensFor(ctx context.Context, db executor, configurationID int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM tokens WHERE configuration_id = $1`, configurationID)
	if err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}
