package domain

import "context"

// Transactor runs fn in a single database transaction. Repositories called with
// the context passed to fn take part in it; any error from fn rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
