package services

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// DefaultRemaining is the optimistic request budget assumed before the first
// response (or whenever the remaining-count header is absent or garbled).
const DefaultRemaining = 30

// rate-limit headers the API sends on every response
const (
	headerRateRemaining = "x-ratelimit-remaining"
	headerRateReset     = "x-ratelimit-reset"
)

// RateLimitState is the single mutable record of the most recent quota
// snapshot. Updates follow last-response-wins: concurrent in-flight requests
// are never merged, whichever Observe lands last is the truth.
type RateLimitState struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
}

// NewRateLimitState returns a state with the optimistic default budget and no
// known reset instant.
func NewRateLimitState() *RateLimitState {
	return &RateLimitState{remaining: DefaultRemaining}
}

// Snapshot returns the current remaining budget and reset instant.
// A zero reset time means no reset instant is known yet.
func (s *RateLimitState) Snapshot() (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining, s.reset
}

// Observe updates the state from a response's rate-limit headers.
//
// The remaining count falls back to [DefaultRemaining] when the header is
// absent or unparseable; the reset instant retains its previous value instead,
// so a transient header omission never flips the gate between optimistic and
// pessimistic scheduling.
func (s *RateLimitState) Observe(h http.Header) {
	remaining := DefaultRemaining
	if raw := h.Get(headerRateRemaining); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			remaining = n
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	if reset, ok := parseResetInstant(h.Get(headerRateReset)); ok {
		s.reset = reset
	}
}

// parseResetInstant accepts either an RFC 3339 timestamp or Unix seconds.
func parseResetInstant(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		sec, frac := int64(secs), secs-float64(int64(secs))
		return time.Unix(sec, int64(frac*float64(time.Second))), true
	}
	return time.Time{}, false
}

// Gate serializes outgoing requests against the remote quota window.
//
// Requests are paced by a token bucket (steady req/s) and deferred entirely
// while the quota is exhausted and a reset instant is known. Deferred callers
// re-check live state when their timer fires rather than holding a queue
// position, so no FIFO order is guaranteed between deferred requests.
type Gate struct {
	state   *RateLimitState
	limiter *rate.Limiter
	buffer  time.Duration
	logger  *log.Logger
}

// NewGate creates a Gate over the given state. requestsPerSecond defaults to
// 1 when non-positive; buffer is the extra wait added past a reset instant.
func NewGate(state *RateLimitState, requestsPerSecond float64, buffer time.Duration, logger *log.Logger) *Gate {
	if state == nil {
		state = NewRateLimitState()
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Gate{
		state:   state,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		buffer:  buffer,
		logger:  logger,
	}
}

// State exposes the gate's quota state for status reporting.
func (g *Gate) State() *RateLimitState { return g.state }

// Do invokes call once the quota allows it, then records the response's
// rate-limit headers. call is a deferred request factory: nothing is
// in flight until the gate decides to start it.
//
// The gate never retries. A non-success status or an application-level
// failure in the body is the caller's problem; Do only schedules.
func (g *Gate) Do(ctx context.Context, call func(context.Context) (*http.Response, error)) (*http.Response, error) {
	for {
		remaining, reset := g.state.Snapshot()

		// Quota left, or no reset instant known (first call or header
		// parse failed): invoking immediately is the safe default.
		if remaining > 0 || reset.IsZero() || !reset.After(time.Now()) {
			break
		}

		delay := time.Until(reset) + g.buffer
		if g.logger != nil {
			g.logger.Warn("request quota exhausted, deferring", "delay", delay, "reset", reset)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		// Re-enter the quota check: another caller may have consumed or
		// refreshed the budget while this one slept.
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := call(ctx)
	if err != nil {
		return nil, err
	}

	g.state.Observe(resp.Header)
	return resp, nil
}
