package sparsegen

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// mockProvider implements Provider for tests.
type mockProvider struct {
	openFn     func(ctx context.Context, name string, settings IndexSettings) (TermIndex, error)
	openCalls  int
	lastName   string
	lastConfig IndexSettings
}

func (m *mockProvider) OpenIndex(ctx context.Context, name string, settings IndexSettings) (TermIndex, error) {
	m.openCalls++
	m.lastName = name
	m.lastConfig = settings
	if m.openFn != nil {
		return m.openFn(ctx, name, settings)
	}
	return &mockTermIndex{}, nil
}

// mockTermIndex implements TermIndex for tests.
type mockTermIndex struct {
	indexFn     func(ctx context.Context, text string) error
	vectorsFn   func(ctx context.Context) (TermVectors, error)
	deleteFn    func(ctx context.Context) error
	indexedText string
	deleted     bool
}

func (m *mockTermIndex) Index(ctx context.Context, text string) error {
	m.indexedText = text
	if m.indexFn != nil {
		return m.indexFn(ctx, text)
	}
	return nil
}

func (m *mockTermIndex) TermVectors(ctx context.Context) (TermVectors, error) {
	if m.vectorsFn != nil {
		return m.vectorsFn(ctx)
	}
	return TermVectors{}, nil
}

func (m *mockTermIndex) Delete(ctx context.Context) error {
	m.deleted = true
	if m.deleteFn != nil {
		return m.deleteFn(ctx)
	}
	return nil
}

func newTestService(t *testing.T, provider Provider) *Service {
	t.Helper()
	return New(provider, 0, zap.NewNop())
}
