// Package mocks holds gomock mocks for the interfaces in types.go.
// The file follows mockgen's output layout; the go:generate directive in
// types.go regenerates it.
package mocks

import (
	context "context"
	reflect "reflect"

	question "github.com/David256/quizzed-backend/internal/question"
	sources "github.com/David256/quizzed-backend/internal/sources"
	gomock "go.uber.org/mock/gomock"
)

// MockQuestionSource is a mock of QuestionSource interface.
type MockQuestionSource struct {
	ctrl     *gomock.Controller
	recorder *MockQuestionSourceMockRecorder
	isgomock struct{}
}

// MockQuestionSourceMockRecorder is the mock recorder for MockQuestionSource.
type MockQuestionSourceMockRecorder struct {
	mock *MockQuestionSource
}

// NewMockQuestionSource creates a new mock instance.
func NewMockQuestionSource(ctrl *gomock.Controller) *MockQuestionSource {
	mock := &MockQuestionSource{ctrl: ctrl}
	mock.recorder = &MockQuestionSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockQuestionSource) EXPECT() *MockQuestionSourceMockRecorder {
	return m.recorder
}

// FetchQuestions mocks base method.
func (m *MockQuestionSource) FetchQuestions(ctx context.Context, amount int) ([]question.Question, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FetchQuestions", ctx, amount)
	ret0, _ := ret[0].([]question.Question)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FetchQuestions indicates an expected call of FetchQuestions.
func (mr *MockQuestionSourceMockRecorder) FetchQuestions(ctx, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FetchQuestions", reflect.TypeOf((*MockQuestionSource)(nil).FetchQuestions), ctx, amount)
}

// Name mocks base method.
func (m *MockQuestionSource) Name() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Name")
	ret0, _ := ret[0].(string)
	return ret0
}

// Name indicates an expected call of Name.
func (mr *MockQuestionSourceMockRecorder) Name() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Name", reflect.TypeOf((*MockQuestionSource)(nil).Name))
}

// MockSourceFactory is a mock of SourceFactory interface.
type MockSourceFactory struct {
	ctrl     *gomock.Controller
	recorder *MockSourceFactoryMockRecorder
	isgomock struct{}
}

// MockSourceFactoryMockRecorder is the mock recorder for MockSourceFactory.
type MockSourceFactoryMockRecorder struct {
	mock *MockSourceFactory
}

// NewMockSourceFactory creates a new mock instance.
func NewMockSourceFactory(ctrl *gomock.Controller) *MockSourceFactory {
	mock := &MockSourceFactory{ctrl: ctrl}
	mock.recorder = &MockSourceFactoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSourceFactory) EXPECT() *MockSourceFactoryMockRecorder {
	return m.recorder
}

// CreateSource mocks base method.
func (m *MockSourceFactory) CreateSource(name string) (sources.QuestionSource, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateSource", name)
	ret0, _ := ret[0].(sources.QuestionSource)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateSource indicates an expected call of CreateSource.
func (mr *MockSourceFactoryMockRecorder) CreateSource(name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateSource", reflect.TypeOf((*MockSourceFactory)(nil).CreateSource), name)
}

// HasAPIToken mocks base method.
func (m *MockSourceFactory) HasAPIToken() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasAPIToken")
	ret0, _ := ret[0].(bool)
	return ret0
}

// HasAPIToken indicates an expected call of HasAPIToken.
func (mr *MockSourceFactoryMockRecorder) HasAPIToken() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HasAPIToken", reflect.TypeOf((*MockSourceFactory)(nil).HasAPIToken))
}

// MockRandomizer is a mock of Randomizer interface.
type MockRandomizer struct {
	ctrl     *gomock.Controller
	recorder *MockRandomizerMockRecorder
	isgomock struct{}
}

// MockRandomizerMockRecorder is the mock recorder for MockRandomizer.
type MockRandomizerMockRecorder struct {
	mock *MockRandomizer
}

// NewMockRandomizer creates a new mock instance.
func NewMockRandomizer(ctrl *gomock.Controller) *MockRandomizer {
	mock := &MockRandomizer{ctrl: ctrl}
	mock.recorder = &MockRandomizerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRandomizer) EXPECT() *MockRandomizerMockRecorder {
	return m.recorder
}

// IntN mocks base method.
func (m *MockRandomizer) IntN(n int) int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IntN", n)
	ret0, _ := ret[0].(int)
	return ret0
}

// IntN indicates an expected call of IntN.
func (mr *MockRandomizerMockRecorder) IntN(n any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IntN", reflect.TypeOf((*MockRandomizer)(nil).IntN), n)
}
