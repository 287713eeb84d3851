// Package domain holds the errors and contracts shared by every domain package.
package domain

import "errors"

// ErrConflict reports that a concurrent write invalidated the data an operation
// was validated against. The whole operation may be retried.
var ErrConflict = errors.New("the record was modified concurrently, please retry")
