package trader

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Callback receives the outcome of an operation started with Go.
type Callback[T any] func(result T, err error)

// Go runs fn on its own goroutine and hands its outcome to cb exactly once.
// A panic inside fn reaches cb as an error. Backoff waits happen on that
// goroutine, the caller is never blocked.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error), cb Callback[T]) {
	go func() {
		var (
			res T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				res, err = zero, fmt.Errorf("panic: %v\n%s", r, debug.Stack())
			}
			cb(res, err)
		}()

		res, err = fn(ctx)
	}()
}
