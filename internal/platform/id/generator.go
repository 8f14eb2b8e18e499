package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque ids for ingestion runs and background batches.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String(), nil
}

// Static returns the same id on every call. Used by tests.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
