package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   50 * time.Millisecond,
		Multiplier: 2.0,
		Jitter:     false, // predictable delays in tests
		LogRetries: false,
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	result := Do(context.Background(), testConfig(), func() error {
		return nil
	})

	if !result.Success {
		t.Error("Expected success=true")
	}
	if result.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", result.Attempts)
	}
	if result.LastError != nil {
		t.Errorf("Expected no error, got %v", result.LastError)
	}
}

func TestDo_EventualSuccess(t *testing.T) {
	calls := 0
	result := Do(context.Background(), testConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("rate limit exceeded")
		}
		return nil
	})

	if !result.Success {
		t.Error("Expected success=true after retries")
	}
	if result.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", result.Attempts)
	}
}

func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	result := Do(context.Background(), testConfig(), func() error {
		calls++
		return errors.New("invalid api key")
	})

	if result.Success {
		t.Error("Expected success=false")
	}
	if calls != 1 {
		t.Errorf("Expected a single attempt for a non-retryable error, got %d", calls)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	result := Do(context.Background(), testConfig(), func() error {
		calls++
		return errors.New("503 service unavailable")
	})

	if result.Success {
		t.Error("Expected success=false")
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts (1 + 2 retries), got %d", calls)
	}
	if result.LastError == nil {
		t.Error("Expected LastError to be set")
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	result := Do(ctx, testConfig(), func() error {
		calls++
		cancel()
		return errors.New("timeout")
	})

	if result.Success {
		t.Error("Expected success=false after cancellation")
	}
	if calls != 1 {
		t.Errorf("Expected 1 attempt before cancellation stopped the loop, got %d", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err       error
		retryable bool
	}{
		{nil, false},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("Quota exceeded for model"), true},
		{errors.New("connection reset by peer"), true},
		{errors.New("dial tcp: i/o timeout"), true},
		{errors.New("invalid api key"), false},
		{errors.New("prompt was blocked"), false},
	}

	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.retryable {
			t.Errorf("IsRetryable(%v) = %v, want %v", c.err, got, c.retryable)
		}
	}
}

func TestCalculateDelay(t *testing.T) {
	config := testConfig()

	d0 := calculateDelay(config, 0)
	d1 := calculateDelay(config, 1)
	d2 := calculateDelay(config, 5)

	if d0 != 5*time.Millisecond {
		t.Errorf("Expected base delay for attempt 0, got %v", d0)
	}
	if d1 != 10*time.Millisecond {
		t.Errorf("Expected doubled delay for attempt 1, got %v", d1)
	}
	if d2 != config.MaxDelay {
		t.Errorf("Expected delay capped at MaxDelay, got %v", d2)
	}
}
