package main

import (
	"context"
	"testing"
)

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, stop := notifyContext(parent)
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before any signal")
	default:
	}

	cancelParent()
	<-ctx.Done()

	ctx2, stop2 := notifyContext(context.Background())
	stop2()
	if ctx2.Err() == nil {
		t.Error("stop() did not cancel the context")
	}
}
