package ble

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/logging"
)

const (
	// DefaultConnectTimeout bounds one connection attempt
	DefaultConnectTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of extra connection attempts
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the default delay before the first retry
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// RetryPolicy controls how Dial retries a failed connection.
type RetryPolicy struct {
	// ConnectTimeout bounds each attempt (0 = no per-attempt bound)
	ConnectTimeout time.Duration

	// MaxRetries is the number of attempts after the first
	MaxRetries int

	// RetryDelay is the initial delay between attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration
}

// DefaultRetryPolicy returns the policy used when the config file sets none.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		ConnectTimeout: DefaultConnectTimeout,
		MaxRetries:     DefaultMaxRetries,
		RetryDelay:     DefaultRetryDelay,
		MaxRetryDelay:  DefaultMaxRetryDelay,
	}
}

// Dial connects to addr, retrying retryable failures with exponential
// backoff. Permission and unsupported errors are returned immediately.
func Dial(ctx context.Context, t Transport, addr identity.Address, p RetryPolicy) (Conn, error) {
	var lastErr error
	currentDelay := p.RetryDelay

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Warn("Retrying connection",
				zap.String("address", addr.String()),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)
			if err := sleepContext(ctx, currentDelay); err != nil {
				return nil, Classify("connect", addr, 0, err)
			}

			currentDelay *= 2
			if p.MaxRetryDelay > 0 && currentDelay > p.MaxRetryDelay {
				currentDelay = p.MaxRetryDelay
			}
		}

		conn, err := connectAttempt(ctx, t, addr, p.ConnectTimeout)
		if err == nil {
			logging.LogConnection(addr.String(), "connected")
			return conn, nil
		}

		lastErr = Classify("connect", addr, 0, err)
		if !IsRetryable(lastErr) || ctx.Err() != nil {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

func connectAttempt(ctx context.Context, t Transport, addr identity.Address, timeout time.Duration) (Conn, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return t.Connect(ctx, addr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
