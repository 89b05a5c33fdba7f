package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff"
)

const (
	// DefaultMaxAttempts is the number of read attempts allowed for the
	// pixel block before the fetch is abandoned
	DefaultMaxAttempts = 100

	// DefaultRetryDelay is the pause between pixel read attempts
	DefaultRetryDelay = 10 * time.Millisecond
)

// RetryPolicy bounds a read loop over a slow stream.
type RetryPolicy struct {
	MaxAttempts int           // read attempts before giving up; < 1 means 1
	Delay       time.Duration // fixed pause between attempts
}

// DefaultRetryPolicy returns the policy used for pixel reads
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultRetryDelay,
	}
}

// backOff builds a constant back-off that stops after MaxAttempts-1 retries
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	retries := p.MaxAttempts - 1
	if retries < 1 {
		// WithMaxRetries treats zero as "no limit"
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(retries))
	return backoff.WithContext(b, ctx)
}

// ReadResult reports how a bounded read went.
type ReadResult struct {
	Attempts int // read calls made, zero-byte reads included
	Bytes    int // bytes placed in the buffer
}

// ReadFull fills buf from r. Each attempt asks for the remaining byte
// count and advances by whatever the reader returned; attempts are spaced
// by the policy delay. If the buffer is still short after MaxAttempts the
// error wraps ErrRetryExhausted. A stream that ends early wraps
// ErrMalformed; any other read error is returned as is.
func ReadFull(ctx context.Context, r io.Reader, buf []byte, p RetryPolicy) (ReadResult, error) {
	var res ReadResult
	if len(buf) == 0 {
		return res, nil
	}

	op := func() error {
		res.Attempts++
		n, err := r.Read(buf[res.Bytes:])
		if n > 0 {
			res.Bytes += n
		}
		if res.Bytes == len(buf) {
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return backoff.Permanent(fmt.Errorf("%w: stream ended after %d of %d bytes", ErrMalformed, res.Bytes, len(buf)))
			}
			return backoff.Permanent(err)
		}
		return errIncomplete
	}

	err := backoff.Retry(op, p.backOff(ctx))
	if errors.Is(err, errIncomplete) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return res, fmt.Errorf("%w: %d of %d bytes after %d attempts", ErrRetryExhausted, res.Bytes, len(buf), res.Attempts)
	}
	return res, err
}
