package rpc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc/encoding"

	"github.com/alfredjeanlab/configs/internal/model"
)

func TestJSONCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	if c == nil {
		t.Fatalf("codec %q not registered", CodecName)
	}

	in := &UpdateConfigurationRequest{
		ID:     4,
		Name:   "edge",
		Assets: []*model.Asset{{ID: 2, AssetType: "host", AssetValue: "a.example"}},
	}
	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out UpdateConfigurationRequest
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, &out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceDesc_Methods(t *testing.T) {
	want := map[string]bool{
		"ListConfigurations": true, "GetConfiguration": true, "CreateConfiguration": true,
		"UpdateConfiguration": true, "DeleteConfiguration": true, "GetToken": true,
		"DecodeToken": true, "Health": true,
	}
	if len(ServiceDesc.Methods) != len(want) {
		t.Fatalf("got %d methods, want %d", len(ServiceDesc.Methods), len(want))
	}
	for _, m := range ServiceDesc.Methods {
		if !want[m.MethodName] {
			t.Errorf("unexpected method %q", m.MethodName)
		}
	}
	if got := FullMethod("Health"); got != "/configs.v1.ConfigurationService/Health" {
		t.Errorf("FullMethod = %q", got)
	}
}
