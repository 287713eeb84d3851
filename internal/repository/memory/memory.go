// Package memory provides in-memory implementations of the domain repositories.
// Service tests run against it instead of PostgreSQL.
package memory

import (
	"context"
	"sync"
)

// Transactor runs fn directly. Calls counts the transactions opened.
type Transactor struct {
	mu    sync.Mutex
	Calls int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}
