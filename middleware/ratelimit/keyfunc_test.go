package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultKeyFunc_ForwardedForWinsOverRemoteAddr(t *testing.T) {
	fn := DefaultKeyFunc(true)

	r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", " 1.2.3.4 , 5.6.7.8")

	if got := fn(r); got != "1.2.3.4" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestDefaultKeyFunc_MultipleForwardedForValuesTakesFirst(t *testing.T) {
	fn := DefaultKeyFunc(true)

	r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Add("X-Forwarded-For", "9.9.9.9")
	r.Header.Add("X-Forwarded-For", "8.8.8.8")

	if got := fn(r); got != "9.9.9.9" {
		t.Fatalf("expected first XFF value, got %q", got)
	}
}

func TestDefaultKeyFunc_EmptyForwardedForFallsBack(t *testing.T) {
	fn := DefaultKeyFunc(true)

	r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "")

	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
}

func TestDefaultKeyFunc_UntrustedForwardedForIsIgnored(t *testing.T) {
	fn := DefaultKeyFunc(false)

	r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")

	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
}

func TestDefaultKeyFunc_RemoteAddrWithoutPort(t *testing.T) {
	fn := DefaultKeyFunc(true)

	r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = "[::1]:8080"

	if got := fn(r); got != "::1" {
		t.Fatalf("expected ipv6 host, got %q", got)
	}

	r.RemoteAddr = "unix-socket"
	if got := fn(r); got != "unix-socket" {
		t.Fatalf("expected raw RemoteAddr, got %q", got)
	}
}

func TestDefaultKeyFunc_OriginThenAnonymous(t *testing.T) {
	fn := DefaultKeyFunc(true)

	r := httptest.NewRequest(http.MethodPost, "http://example/study", nil)
	r.RemoteAddr = ""
	r.Header.Set("Origin", "https://app.example")

	if got := fn(r); got != "https://app.example" {
		t.Fatalf("expected origin, got %q", got)
	}

	r.Header.Del("Origin")
	if got := fn(r); got != "anonymous" {
		t.Fatalf("expected anonymous fallback, got %q", got)
	}
}
