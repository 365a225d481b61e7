package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// Do executes fn with exponential backoff until it succeeds, the attempts
// are exhausted or ctx is done.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return do(ctx, cfg, "", fn, nil)
}

// DoWithLog behaves like Do and logs every failed attempt against the named
// dependency.
func DoWithLog(ctx context.Context, cfg Config, dependency string, fn func() error, logger zerolog.Logger) error {
	return do(ctx, cfg, dependency, fn, func(attempt int, err error, next time.Duration) {
		logger.Warn().
			Err(err).
			Str("dependency", dependency).
			Int("attempt", attempt).
			Dur("next_delay", next).
			Msg("connection attempt failed, retrying")
	})
}

func do(ctx context.Context, cfg Config, dependency string, fn func() error, onFailure func(int, error, time.Duration)) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	prefix := ""
	if dependency != "" {
		prefix = dependency + ": "
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%sretry aborted after %d attempts: %w (last error: %v)", prefix, attempt-1, err, lastErr)
			}
			return fmt.Errorf("%sretry aborted: %w", prefix, err)
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}
		if onFailure != nil {
			onFailure(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%sretry aborted after %d attempts: %w (last error: %v)", prefix, attempt, ctx.Err(), lastErr)
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%smax retry attempts (%d) exceeded: %w", prefix, cfg.MaxAttempts, lastErr)
}
