package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts:   maxAttempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("still broken")
	err := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want the last attempt's error", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoRecoversMidway(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("permanent")
	cfg := fastConfig(5)
	cfg.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("error = %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{
		MaxAttempts:   10,
		InitialDelay:  time.Hour,
		MaxDelay:      time.Hour,
		BackoffFactor: 2.0,
	}

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func(ctx context.Context) error {
			return errors.New("fail")
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not stop after context cancellation")
	}
}

func TestBackoffGrowsExponentially(t *testing.T) {
	cfg := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Minute,
		BackoffFactor: 2.0,
	}

	d1 := Backoff(1, cfg)
	d2 := Backoff(2, cfg)
	d3 := Backoff(3, cfg)
	if d1 != 100*time.Millisecond {
		t.Errorf("first delay = %v, want 100ms", d1)
	}
	if d2 != 200*time.Millisecond {
		t.Errorf("second delay = %v, want 200ms", d2)
	}
	if d3 != 400*time.Millisecond {
		t.Errorf("third delay = %v, want 400ms", d3)
	}
}

func TestBackoffCapsAtMaxDelay(t *testing.T) {
	cfg := Config{
		InitialDelay:  time.Second,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 10.0,
	}
	if d := Backoff(5, cfg); d != 2*time.Second {
		t.Errorf("delay = %v, want the 2s cap", d)
	}
}

func TestBackoffJitterStaysInRange(t *testing.T) {
	cfg := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Minute,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
	for i := 0; i < 50; i++ {
		d := Backoff(1, cfg)
		if d < 80*time.Millisecond || d > 120*time.Millisecond {
			t.Fatalf("jittered delay %v outside [80ms, 120ms]", d)
		}
	}
}
