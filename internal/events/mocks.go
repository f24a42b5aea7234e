package events

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, event MatchEvent) {
	m.Called(ctx, event)
}
