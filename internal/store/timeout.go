package store

import (
	"context"
	"time"
)

// CallContext bounds a single remote call by timeout.
// A zero or negative timeout leaves ctx without a deadline of its own.
func CallContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
