package rpc

import "github.com/alfredjeanlab/configs/internal/model"

type ListConfigurationsRequest struct{}

type ListConfigurationsResponse struct {
	Configurations []*model.Configuration `json:"configurations"`
}

type GetConfigurationRequest struct {
	ID int64 `json:"id"`
}

type GetConfigurationResponse struct {
	Configuration *model.Configuration `json:"configuration"`
}

type CreateConfigurationRequest struct {
	Name   string         `json:"name"`
	Assets []*model.Asset `json:"assets"`
}

type CreateConfigurationResponse struct {
	Configuration *model.Configuration `json:"configuration"`
}

type UpdateConfigurationRequest struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Assets []*model.Asset `json:"assets"`
}

type UpdateConfigurationResponse struct {
	Configuration *model.Configuration `json:"configuration"`
}

type DeleteConfigurationRequest struct {
	ID int64 `json:"id"`
}

type DeleteConfigurationResponse struct{}

type GetTokenRequest struct {
	ID int64 `json:"id"`
}

type GetTokenResponse struct {
	Token string `json:"token"`
}

type DecodeTokenRequest struct {
	Token string `json:"token"`
}

type DecodeTokenResponse struct {
	Configuration *model.Configuration `json:"configuration"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status string `json:"status"`
}
