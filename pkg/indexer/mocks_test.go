package indexer_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/searchkit/pkg/schema"
)

// MockSource is a mock implementation of indexer.Source. Records returns
// the configured records and feeds them to the callback.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Count(ctx context.Context, entity schema.Entity) (int64, error) {
	args := m.Called(ctx, entity.Name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSource) Records(ctx context.Context, entity schema.Entity, fn func(schema.Record) error) error {
	args := m.Called(ctx, entity.Name)
	if err := args.Error(1); err != nil {
		return err
	}
	for _, rec := range args.Get(0).([]schema.Record) {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// MockObserver is a mock implementation of indexer.Observer.
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) OnPersisted(ctx context.Context, rec schema.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockObserver) OnUpdated(ctx context.Context, rec schema.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockObserver) OnRemoved(ctx context.Context, rec schema.Record) error {
	return m.Called(ctx, rec).Error(0)
}
