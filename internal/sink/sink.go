// Package sink mirrors appended ledger records to an external
// append-only row target. A sink failure is reported but never rolls
// back the in-memory ledger append: the two stores are independently
// consistent, and a locally captured record is never lost because the
// sink was unreachable.
package sink

import (
	"context"
	"fmt"

	"github.com/zinct/zinct/internal/ledger"
)

// Sink is an append-only row target for ledger records.
type Sink interface {
	// Append mirrors one record to the sink
	Append(ctx context.Context, rec ledger.Record) error
	// Close releases sink resources
	Close() error
}

// Error wraps a failed sink append with the sink's name.
type Error struct {
	Sink string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s sink append: %v", e.Sink, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Noop is the demo-mode sink: every append succeeds with no external
// effect.
type Noop struct{}

func (Noop) Append(ctx context.Context, rec ledger.Record) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
