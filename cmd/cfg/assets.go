package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/configs/internal/model"
)

// parseAsset parses an --asset flag value of the form [id:]type=value.
// The value may itself contain '=' or ':'.
func parseAsset(s string) (*model.Asset, error) {
	head, value, ok := strings.Cut(s, "=")
	if !ok {
		return nil, fmt.Errorf("invalid asset %q: expected [id:]type=value", s)
	}
	a := &model.Asset{AssetValue: value, AssetType: head}
	if idStr, typ, ok := strings.Cut(head, ":"); ok {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid asset %q: id must be a positive integer", s)
		}
		a.ID, a.AssetType = id, typ
	}
	if a.AssetType == "" {
		return nil, fmt.Errorf("invalid asset %q: type is required", s)
	}
	return a, nil
}

func parseAssets(values []string) ([]*model.Asset, error) {
	assets := make([]*model.Asset, 0, len(values))
	for _, v := range values {
		a, err := parseAsset(v)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid configuration ID %q", s)
	}
	return id, nil
}
