package ratelimit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"study-gateway/middleware/ratelimit/domain"
	"study-gateway/middleware/ratelimit/infra"
)

type recordingStats struct {
	events []domain.StatsEvent
	err    error
}

func (s *recordingStats) Record(_ context.Context, ev domain.StatsEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestMiddleware_FiveAllowedThenSixthRejected(t *testing.T) {
	log := infra.NewSlidingLog(domain.DefaultLimit, domain.DefaultWindow, infra.WithSweepEvery(0))
	now := time.UnixMilli(1_700_000_000_000)

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	h := Middleware(Options{
		Log:                 log,
		Now:                 fixedClock(&now),
		TrustXForwardedFor:  true,
		AddRateLimitHeaders: true,
	})(next)

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != formatInt(4-i) {
			t.Fatalf("request %d: expected remaining %d, got %q", i+1, 4-i, got)
		}
		now = now.Add(10 * time.Millisecond)
	}

	r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("expected Retry-After=60, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Fatalf("expected X-RateLimit-Limit=5, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Window"); got != "60" {
		t.Fatalf("expected X-RateLimit-Window=60, got %q", got)
	}
	if calls != 5 {
		t.Fatalf("expected next handler to be called 5 times, got %d", calls)
	}

	// passada a janela do primeiro, volta a admitir.
	now = time.UnixMilli(1_700_000_060_000)
	r = httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after window, got %d", w.Code)
	}
}

func TestMiddleware_ForwardedForSeparatesClientsBehindProxy(t *testing.T) {
	log := infra.NewSlidingLog(1, time.Minute, infra.WithSweepEvery(0))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Middleware(Options{Log: log, TrustXForwardedFor: true})(next)

	for _, client := range []string{"1.1.1.1", "2.2.2.2"} {
		r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", client+", 10.0.0.1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", client, w.Code)
		}
	}
}

func TestMiddleware_CustomRejectAndStats(t *testing.T) {
	log := infra.NewSlidingLog(1, time.Minute, infra.WithSweepEvery(0))
	stats := &recordingStats{err: errors.New("redis down")}

	var statsErrs int
	var rejected domain.Decision
	h := Middleware(Options{
		Log:          log,
		Stats:        stats,
		OnStatsError: func(error) { statsErrs++ },
		OnReject: func(w http.ResponseWriter, r *http.Request, dec domain.Decision) {
			rejected = dec
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"statusCode":429}`)
		},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
		r.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if i == 1 {
			if w.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "429") {
				t.Fatalf("expected custom body, got %q", w.Body.String())
			}
		}
	}

	if rejected.Allowed {
		t.Fatalf("expected OnReject to receive a blocked decision")
	}
	if len(stats.events) != 2 {
		t.Fatalf("expected 2 stats events, got %d", len(stats.events))
	}
	if !stats.events[0].Allowed || stats.events[1].Allowed {
		t.Fatalf("expected allowed then denied, got %+v", stats.events)
	}
	if stats.events[1].Key != "10.0.0.2" || stats.events[1].Path != "/study" || stats.events[1].Method != http.MethodPost {
		t.Fatalf("unexpected event %+v", stats.events[1])
	}
	if statsErrs != 2 {
		t.Fatalf("expected stats errors to be reported and ignored, got %d", statsErrs)
	}
}

func TestRetryAfterSeconds_RoundsUp(t *testing.T) {
	cases := map[time.Duration]int{
		0:                       1,
		200 * time.Millisecond:  1,
		2500 * time.Millisecond: 3,
		60 * time.Second:        60,
	}
	for in, want := range cases {
		if got := retryAfterSeconds(in); got != want {
			t.Fatalf("retryAfterSeconds(%s): expected %d, got %d", in, want, got)
		}
	}
}
