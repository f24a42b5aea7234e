package prompt

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/CodeClash/internal/challenge"
)

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, t challenge.Type) Set {
	args := m.Called(ctx, t)
	return args.Get(0).(Set)
}
