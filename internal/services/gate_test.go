package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func stubResponse(headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader("{}")),
	}
}

func TestRateLimitState(t *testing.T) {
	t.Run("Starts Optimistic", func(t *testing.T) {
		state := NewRateLimitState()
		remaining, reset := state.Snapshot()

		if remaining != DefaultRemaining {
			t.Errorf("expected default remaining %d, got %d", DefaultRemaining, remaining)
		}
		if !reset.IsZero() {
			t.Errorf("expected unset reset instant, got %v", reset)
		}
	})

	t.Run("Observe Parses Headers", func(t *testing.T) {
		state := NewRateLimitState()
		reset := time.Now().Add(time.Minute).UTC().Truncate(time.Second)

		state.Observe(stubResponse(map[string]string{
			headerRateRemaining: "7",
			headerRateReset:     reset.Format(time.RFC3339),
		}).Header)

		remaining, gotReset := state.Snapshot()
		if remaining != 7 {
			t.Errorf("expected remaining 7, got %d", remaining)
		}
		if !gotReset.Equal(reset) {
			t.Errorf("expected reset %v, got %v", reset, gotReset)
		}
	})

	t.Run("Observe Accepts Unix Seconds", func(t *testing.T) {
		state := NewRateLimitState()
		reset := time.Now().Add(30 * time.Second)

		state.Observe(stubResponse(map[string]string{
			headerRateRemaining: "3",
			headerRateReset:     "1767225600",
		}).Header)

		_, gotReset := state.Snapshot()
		if gotReset.IsZero() {
			t.Errorf("expected unix reset to parse, got zero (wanted something near %v)", reset)
		}
	})

	t.Run("Malformed Remaining Falls Back To Default", func(t *testing.T) {
		state := NewRateLimitState()
		state.Observe(stubResponse(map[string]string{headerRateRemaining: "0"}).Header)

		state.Observe(stubResponse(map[string]string{headerRateRemaining: "not-a-number"}).Header)

		remaining, _ := state.Snapshot()
		if remaining != DefaultRemaining {
			t.Errorf("expected fallback to %d, got %d", DefaultRemaining, remaining)
		}
	})

	t.Run("Malformed Reset Retains Previous Value", func(t *testing.T) {
		state := NewRateLimitState()
		reset := time.Now().Add(time.Minute).UTC().Truncate(time.Second)

		state.Observe(stubResponse(map[string]string{
			headerRateRemaining: "5",
			headerRateReset:     reset.Format(time.RFC3339),
		}).Header)

		state.Observe(stubResponse(map[string]string{
			headerRateRemaining: "4",
			headerRateReset:     "yesterday-ish",
		}).Header)

		remaining, gotReset := state.Snapshot()
		if remaining != 4 {
			t.Errorf("expected remaining 4, got %d", remaining)
		}
		if !gotReset.Equal(reset) {
			t.Errorf("expected reset retained as %v, got %v", reset, gotReset)
		}
	})

	t.Run("Last Response Wins", func(t *testing.T) {
		state := NewRateLimitState()

		state.Observe(stubResponse(map[string]string{headerRateRemaining: "10"}).Header)
		state.Observe(stubResponse(map[string]string{headerRateRemaining: "2"}).Header)

		remaining, _ := state.Snapshot()
		if remaining != 2 {
			t.Errorf("expected last observation to win with 2, got %d", remaining)
		}
	})
}

func TestGate(t *testing.T) {
	t.Run("Invokes Immediately With Quota", func(t *testing.T) {
		gate := NewGate(NewRateLimitState(), 1000, time.Second, nil)

		start := time.Now()
		calls := 0
		_, err := gate.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
			calls++
			return stubResponse(nil), nil
		})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Fatalf("expected exactly one invocation, got %d", calls)
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("expected immediate invocation, took %v", elapsed)
		}
	})

	t.Run("Defers Until Reset Plus Buffer", func(t *testing.T) {
		state := NewRateLimitState()
		reset := time.Now().Add(60 * time.Millisecond)
		state.Observe(stubResponse(map[string]string{
			headerRateRemaining: "0",
			headerRateReset:     reset.Format(time.RFC3339Nano),
		}).Header)

		buffer := 40 * time.Millisecond
		gate := NewGate(state, 1000, buffer, nil)

		var invokedAt time.Time
		_, err := gate.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
			invokedAt = time.Now()
			return stubResponse(map[string]string{headerRateRemaining: "29"}), nil
		})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if invokedAt.Before(reset.Add(buffer)) {
			t.Errorf("factory ran at %v, before reset+buffer %v", invokedAt, reset.Add(buffer))
		}

		remaining, _ := state.Snapshot()
		if remaining != 29 {
			t.Errorf("expected refreshed remaining 29, got %d", remaining)
		}
	})

	t.Run("Invokes Immediately Without Known Reset", func(t *testing.T) {
		state := NewRateLimitState()
		state.Observe(stubResponse(map[string]string{headerRateRemaining: "0"}).Header)

		gate := NewGate(state, 1000, time.Second, nil)

		start := time.Now()
		_, err := gate.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
			return stubResponse(nil), nil
		})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("expected immediate invocation with unknown reset, took %v", elapsed)
		}
	})

	t.Run("Deferred Call Respects Cancellation", func(t *testing.T) {
		state := NewRateLimitState()
		state.Observe(stubResponse(map[string]string{
			headerRateRemaining: "0",
			headerRateReset:     time.Now().Add(time.Hour).Format(time.RFC3339),
		}).Header)

		gate := NewGate(state, 1000, 0, nil)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		_, err := gate.Do(ctx, func(ctx context.Context) (*http.Response, error) {
			t.Error("factory must not run after cancellation")
			return stubResponse(nil), nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Factory Error Propagates Unretried", func(t *testing.T) {
		gate := NewGate(NewRateLimitState(), 1000, 0, nil)

		calls := 0
		want := errors.New("connection refused")
		_, err := gate.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
			calls++
			return nil, want
		})

		if !errors.Is(err, want) {
			t.Errorf("expected factory error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected exactly one attempt, got %d", calls)
		}
	})

	t.Run("Records Headers After Invocation", func(t *testing.T) {
		state := NewRateLimitState()
		gate := NewGate(state, 1000, 0, nil)

		_, err := gate.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
			return stubResponse(map[string]string{headerRateRemaining: "11"}), nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		remaining, _ := state.Snapshot()
		if remaining != 11 {
			t.Errorf("expected observed remaining 11, got %d", remaining)
		}
	})
}
