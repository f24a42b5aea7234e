package battle

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(ctx context.Context, msg GameMessage) {
	m.Called(ctx, msg)
}
