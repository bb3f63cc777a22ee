// Package mocks holds gomock mocks for the interfaces in service.go.
// The file follows mockgen's output layout; the go:generate directive in
// service.go regenerates it.
package mocks

import (
	context "context"
	reflect "reflect"

	provider "github.com/David256/quizzed-backend/internal/provider"
	question "github.com/David256/quizzed-backend/internal/question"
	gomock "go.uber.org/mock/gomock"
)

// MockProvider is a mock of Provider interface.
type MockProvider struct {
	ctrl     *gomock.Controller
	recorder *MockProviderMockRecorder
	isgomock struct{}
}

// MockProviderMockRecorder is the mock recorder for MockProvider.
type MockProviderMockRecorder struct {
	mock *MockProvider
}

// NewMockProvider creates a new mock instance.
func NewMockProvider(ctrl *gomock.Controller) *MockProvider {
	mock := &MockProvider{ctrl: ctrl}
	mock.recorder = &MockProviderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProvider) EXPECT() *MockProviderMockRecorder {
	return m.recorder
}

// Provide mocks base method.
func (m *MockProvider) Provide(ctx context.Context, callbacks ...provider.Callback) ([]question.Question, error) {
	m.ctrl.T.Helper()
	varargs := []any{ctx}
	for _, a := range callbacks {
		varargs = append(varargs, a)
	}
	ret := m.ctrl.Call(m, "Provide", varargs...)
	ret0, _ := ret[0].([]question.Question)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Provide indicates an expected call of Provide.
func (mr *MockProviderMockRecorder) Provide(ctx any, callbacks ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	varargs := append([]any{ctx}, callbacks...)
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Provide", reflect.TypeOf((*MockProvider)(nil).Provide), varargs...)
}
