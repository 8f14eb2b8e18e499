package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_UniqueValidIDs(t *testing.T) {
	gen := NewUUIDGenerator()
	seen := make(map[string]struct{}, 32)
	for i := 0; i < 32; i++ {
		value, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, err := uuid.Parse(value); err != nil {
			t.Fatalf("expected uuid, got %q", value)
		}
		if _, dup := seen[value]; dup {
			t.Fatalf("duplicate id %q", value)
		}
		seen[value] = struct{}{}
	}
}

func TestStatic(t *testing.T) {
	var gen Generator = Static("run-1")
	for i := 0; i < 2; i++ {
		if value, _ := gen.NewID(); value != "run-1" {
			t.Fatalf("expected run-1, got %q", value)
		}
	}
}
