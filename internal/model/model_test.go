package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateConfigurationInput(t *testing.T) {
	for _, tc := range []struct {
		name      string
		in        ConfigurationInput
		wantField string
	}{
		{"Valid", ConfigurationInput{Name: "web", Assets: []*Asset{{AssetType: "color", AssetValue: "blue"}}}, ""},
		{"EmptyAssets", ConfigurationInput{Name: "web", Assets: []*Asset{}}, ""},
		{"MissingName", ConfigurationInput{Assets: []*Asset{}}, "name"},
		{"BlankName", ConfigurationInput{Name: "   ", Assets: []*Asset{}}, "name"},
		{"MissingAssets", ConfigurationInput{Name: "web"}, "assets"},
		{"NullAsset", ConfigurationInput{Name: "web", Assets: []*Asset{nil}}, "assets[0]"},
		{"NegativeAssetID", ConfigurationInput{Name: "web", Assets: []*Asset{{ID: -3}}}, "assets[0].id"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfigurationInput(&tc.in)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if errs := fieldErrors(t, err); !hasFieldError(errs, tc.wantField) {
				t.Errorf("expected error on field %q, got %v", tc.wantField, errs)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := ValidateConfigurationInput(&ConfigurationInput{})
	msg := err.Error()
	if !strings.HasPrefix(msg, "validation failed: ") {
		t.Errorf("unexpected prefix: %q", msg)
	}
	if !strings.Contains(msg, "name: is required") || !strings.Contains(msg, "assets: is required") {
		t.Errorf("message missing field errors: %q", msg)
	}
}

func TestConfigurationJSONFieldNames(t *testing.T) {
	c := Configuration{
		ID:     7,
		Name:   "web",
		Assets: []*Asset{{ID: 1, AssetType: "color", AssetValue: "blue", ConfigurationID: 7}},
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"assetType":"color"`, `"assetValue":"blue"`, `"configurationId":7`, `"name":"web"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("missing %s in %s", key, data)
		}
	}
}

func TestConfigurationInput_DecodesOriginalBody(t *testing.T) {
	body := `{"name":"A","assets":[{"assetType":"k","assetValue":"v"},{"id":4,"assetType":"x","assetValue":"y"}]}`
	var in ConfigurationInput
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Name != "A" || len(in.Assets) != 2 {
		t.Fatalf("got %+v", in)
	}
	if in.Assets[0].ID != 0 || in.Assets[1].ID != 4 {
		t.Errorf("asset ids = %d, %d", in.Assets[0].ID, in.Assets[1].ID)
	}
	if err := ValidateConfigurationInput(&in); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
