package utils

import (
	"context"
	"time"
)

// Retry ejecuta fn hasta attempts veces con una pausa fija entre intentos.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return RetryIf(ctx, attempts, delay, nil, fn)
}

// RetryIf reintenta solo cuando retryable(err) es true (nil = siempre).
// Devuelve el último error de fn, o ctx.Err() si el contexto se cancela durante una pausa.
func RetryIf(ctx context.Context, attempts int, delay time.Duration, retryable func(error) bool, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt == attempts || (retryable != nil && !retryable(err)) {
			return err
		}
		timer.Reset(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
