package challenge

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type GeneratorMock struct {
	mock.Mock
}

func (m *GeneratorMock) Generate(ctx context.Context, req GenerateRequest) Challenge {
	args := m.Called(ctx, req)
	return args.Get(0).(Challenge)
}

type EvaluatorMock struct {
	mock.Mock
}

func (m *EvaluatorMock) Evaluate(ctx context.Context, req EvaluateRequest) Evaluation {
	args := m.Called(ctx, req)
	return args.Get(0).(Evaluation)
}

type CompleterMock struct {
	mock.Mock
}

func (m *CompleterMock) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
