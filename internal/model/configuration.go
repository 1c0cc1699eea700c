package model

import "time"

// Configuration is a named, ordered collection of assets. The ID is assigned
// by the store and never changes.
type Configuration struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Assets    []*Asset  `json:"assets"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Asset is a typed key/value pair owned by exactly one configuration.
// ConfigurationID is a lookup reference to the owner.
type Asset struct {
	ID              int64  `json:"id,omitempty"`
	AssetType       string `json:"assetType"`
	AssetValue      string `json:"assetValue"`
	ConfigurationID int64  `json:"configurationId,omitempty"`
}

// Token is the signed handle issued for a configuration. There is at most one
// token per configuration.
type Token struct {
	ConfigurationID int64     `json:"configurationId"`
	Token           string    `json:"token"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ConfigurationInput is the client-supplied body for create and update.
// On update, an asset carrying the ID of an existing asset of the same
// configuration is modified in place; any other asset is inserted.
type ConfigurationInput struct {
	Name   string   `json:"name"`
	Assets []*Asset `json:"assets"`
}
