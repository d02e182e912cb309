package sshclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithRetries_SucceedsWithinBudget(t *testing.T) {
	calls := 0
	err := WithRetries(context.Background(), 5, func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestWithRetries_ZeroMeansOneAttempt(t *testing.T) {
	calls := 0
	err := WithRetries(context.Background(), 0, func() error {
		calls++
		return errors.New("boom")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestWithRetries_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetries(ctx, -1, func() error {
		return errors.New("boom")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Username: "root", Password: "x"})
	require.Error(t, err)

	_, err = New(Config{Host: "h", Username: "root"})
	require.Error(t, err)

	c, err := New(Config{Host: "h", Username: "root", Password: "x"})
	require.NoError(t, err)
	require.NotNil(t, c)
}
