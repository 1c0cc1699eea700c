package idgen

import (
	"regexp"
	"testing"
)

var requestIDPattern = regexp.MustCompile(`^req-[a-zA-Z0-9]{12}$`)

func TestRequestID_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := RequestID()
		if err != nil {
			t.Fatalf("RequestID() error on iteration %d: %v", i, err)
		}
		if !requestIDPattern.MatchString(id) {
			t.Fatalf("RequestID() = %q, does not match %s", id, requestIDPattern)
		}
	}
}

func TestRequestID_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id := MustRequestID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
