package sshclient

import (
	"context"
	"time"
)

// retryPause separates attempts. The caller configures how many retries it
// gets, not how they are spaced.
const retryPause = time.Second

// WithRetries runs op until it succeeds or the retry budget is spent.
// retries counts attempts after the first one; -1 retries until success or
// context cancellation.
func WithRetries(ctx context.Context, retries int, op func() error) error {
	attempt := 0
	for {
		err := op()
		if err == nil {
			return nil
		}
		attempt++
		if retries >= 0 && attempt > retries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryPause):
		}
	}
}
