package health

import (
	"context"
	"fmt"
	"runtime"
)

// GoroutineCountCheck fails when the number of goroutines exceeds the
// threshold, which usually indicates a leak.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return fmt.Errorf("too many goroutines: %d > %d", count, threshold)
		}
		return nil
	}
}

// DatabasePingCheck reports readiness of a connection pool.
func DatabasePingCheck(pinger interface {
	Ping(ctx context.Context) error
}) CheckFunc {
	return func(ctx context.Context) error {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("database ping: %w", err)
		}
		return nil
	}
}
