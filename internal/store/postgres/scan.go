package postgres

import (
	"database/sql"

	"github.com/alfredjeanlab/configs/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanConfiguration scans a single row into a model.Configuration.
// The row must contain columns in the order defined by configurationColumns.
// Assets are initialized empty so they serialize as [] rather than null.
func scanConfiguration(row scannable) (*model.Configuration, error) {
	c := model.Configuration{Assets: []*model.Asset{}}
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// scanConfigurations scans multiple rows into a slice of model.Configuration pointers.
func scanConfigurations(rows *sql.Rows) ([]*model.Configuration, error) {
	configs := []*model.Configuration{}
	for rows.Next() {
		c, err := scanConfiguration(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return configs, nil
}

// scanAsset scans a single row into a model.Asset.
func scanAsset(row scannable) (*model.Asset, error) {
	var a model.Asset
	if err := row.Scan(&a.ID, &a.AssetType, &a.AssetValue, &a.ConfigurationID); err != nil {
		return nil, err
	}
	return &a, nil
}

// scanAssets scans multiple rows into a slice of model.Asset pointers.
func scanAssets(rows *sql.Rows) ([]*model.Asset, error) {
	assets := []*model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// scanToken scans a single row into a model.Token.
func scanToken(row scannable) (*model.Token, error) {
	var t model.Token
	if err := row.Scan(&t.ConfigurationID, &t.Token, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
