// Package mockfetcher provides a testify-based mock of the users source
// consumed by the app package. It lets app tests simulate successful
// fetches and every failure category without a network.
package mockfetcher

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/userfinder/internal/models"
)

// FetcherMock is a testify mock implementing FetchUsers.
type FetcherMock struct {
	mock.Mock
}

// FetchUsers mocks the single users request.
func (m *FetcherMock) FetchUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}
