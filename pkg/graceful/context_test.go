package graceful

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestContext_CanceledOnSignal(t *testing.T) {
	ctx, stop := Context(context.Background())
	defer stop()

	go func() {
		time.Sleep(100 * time.Millisecond)
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
			t.Errorf("Failed to send SIGTERM: %v", err)
		}
	}()

	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.Canceled) {
			t.Errorf("Expected context.Canceled error, got %v", ctx.Err())
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Test timed out waiting for context to be canceled.")
	}
}

func TestContext_StopCancels(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	defer cancelParent()

	ctx, stop := Context(parent)
	stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel the context")
	}
	if parent.Err() != nil {
		t.Error("stop must not cancel the parent context")
	}
}
