package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 240
)

// ErrDeliveryExhausted reports that the attempt budget was spent without the
// message being observed as delivered. It is a definite outcome, not a retry
// signal.
var ErrDeliveryExhausted = errors.New("delivery confirmation attempts exhausted")

var errNotYetDelivered = errors.New("message not yet delivered")

// PollOptions bound a delivery poll loop.
type PollOptions struct {
	Interval    time.Duration
	MaxAttempts uint
}

func (o PollOptions) withDefaults() PollOptions {
	if o.Interval <= 0 {
		o.Interval = defaultPollInterval
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	return o
}

// PollDelivery runs check at a fixed interval until it reports delivery, the
// attempt budget is spent, or ctx is done. Transient check errors consume
// attempts like a not-yet-delivered observation.
func PollDelivery(ctx context.Context, opts PollOptions, check func(ctx context.Context) (bool, error)) error {
	opts = opts.withDefaults()

	err := retry.Do(
		func() error {
			delivered, err := check(ctx)
			if err != nil {
				return err
			}
			if !delivered {
				return errNotYetDelivered
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(opts.MaxAttempts),
		retry.Delay(opts.Interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if errors.Is(err, errNotYetDelivered) {
			return fmt.Errorf("%w after %d attempts", ErrDeliveryExhausted, opts.MaxAttempts)
		}
		return fmt.Errorf("polling for delivery: %w", err)
	}
	return nil
}
