package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sheetrows/pkg/contracts/domain"
)

// MockSource is a mock for sheets.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Fetch(ctx context.Context) (domain.Table, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Table), args.Error(1)
}
