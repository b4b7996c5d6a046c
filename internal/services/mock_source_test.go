package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"divstreak/internal/dividend"
)

// MockSource is a testify mock implementing source.Source
type MockSource struct {
	mock.Mock
}

// Load implements source.Source
func (m *MockSource) Load(ctx context.Context) (dividend.Table, error) {
	args := m.Called(ctx)
	return args.Get(0).(dividend.Table), args.Error(1)
}

// Name implements source.Source
func (m *MockSource) Name() string {
	return "mock"
}
