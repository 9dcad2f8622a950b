package testutil

import (
	"context"

	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

// MockPostgresClient runs transactional blocks without a database. Writes
// made before a failure inside the block are not undone.
type MockPostgresClient struct {
	logger *logger.Logger
	// Calls counts WithTx invocations, nested ones included
	Calls int
}

func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{logger: logger}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	c.Calls++
	return fn(ctx)
}
