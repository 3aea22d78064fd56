package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func withSpinnerOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := spinnerOut
	spinnerOut = &buf
	t.Cleanup(func() { spinnerOut = old })
	return &buf
}

func TestSpinnerBasic(t *testing.T) {
	buf := withSpinnerOut(t)
	s := newSpinner(context.Background(), "Testing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop")
	}
	if !strings.Contains(buf.String(), "Testing...") {
		t.Errorf("output %q missing message", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	withSpinnerOut(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Waiting")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancel")
	}
	s.Stop()
}

func TestSpinnerStopTwice(t *testing.T) {
	withSpinnerOut(t)
	s := newSpinner(context.Background(), "x")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	buf := withSpinnerOut(t)
	s := newSpinner(context.Background(), "first")
	s.Start()
	s.SetMessage("second")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "second") {
		t.Errorf("output %q missing updated message", buf.String())
	}
}
