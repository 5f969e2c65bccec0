package application

import (
	"testing"
	"time"

	"study-gateway/middleware/ratelimit/domain"
)

type fakeLog struct {
	dec  domain.Decision
	keys []domain.Key
	at   []time.Time
}

func (f *fakeLog) Decide(key domain.Key, now time.Time) domain.Decision {
	f.keys = append(f.keys, key)
	f.at = append(f.at, now)
	return f.dec
}

func TestService_Decide_AllowsWhenNoLog(t *testing.T) {
	svc := Service{}
	dec := svc.Decide("k")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_UsesInjectedClock(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	log := &fakeLog{dec: domain.Decision{Allowed: true, Remaining: 4}}
	svc := Service{Log: log, Now: func() time.Time { return at }}

	dec := svc.Decide("10.0.0.1")
	if !dec.Allowed || dec.Remaining != 4 {
		t.Fatalf("unexpected decision %+v", dec)
	}
	if len(log.keys) != 1 || log.keys[0] != "10.0.0.1" {
		t.Fatalf("expected key to be forwarded, got %v", log.keys)
	}
	if !log.at[0].Equal(at) {
		t.Fatalf("expected injected clock, got %s", log.at[0])
	}
}

func TestService_Decide_BlockedKeepsRetryAfterFromLog(t *testing.T) {
	log := &fakeLog{dec: domain.Decision{Allowed: false, RetryAfter: 42 * time.Second}}
	svc := Service{Log: log}

	dec := svc.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 42*time.Second {
		t.Fatalf("expected RetryAfter=42s, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_BlockedWithoutRetryAfterDefaultsToOneSecond(t *testing.T) {
	svc := Service{Log: &fakeLog{dec: domain.Decision{Allowed: false}}}

	dec := svc.Decide("k")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 1*time.Second {
		t.Fatalf("expected default RetryAfter=1s, got %s", dec.RetryAfter)
	}
}
