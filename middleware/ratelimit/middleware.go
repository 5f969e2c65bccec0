package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"study-gateway/middleware/ratelimit/application"
	"study-gateway/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

// RejectFunc escreve a resposta de uma requisição bloqueada.
// Retry-After já foi definido quando é chamada.
type RejectFunc func(w http.ResponseWriter, r *http.Request, dec domain.Decision)

type Options struct {
	Log domain.RequestLog
	// Now permite fixar o relógio (testes). Se nil, usa time.Now.
	Now   func() time.Time
	Stats domain.StatsStore
	// OnStatsError recebe falhas do Stats; o request segue normalmente.
	OnStatsError        func(error)
	KeyFn               KeyFunc
	TrustXForwardedFor  bool
	OnReject            RejectFunc
	AddRateLimitHeaders bool
}

type rateInfo interface {
	Limit() int
	Window() time.Duration
}

// DefaultKeyFunc resolve a chave do cliente, nesta ordem:
//
//  1. X-Forwarded-For com um único valor: trecho antes da primeira vírgula (trim)
//  2. X-Forwarded-For com vários valores: o primeiro
//  3. host de RemoteAddr (conexão direta)
//  4. header Origin
//  5. domain.AnonymousKey (todos os não identificados dividem o mesmo balde)
//
// Com trustXFF=false os passos 1 e 2 são ignorados.
func DefaultKeyFunc(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			if ip := forwardedFor(r.Header.Values("X-Forwarded-For")); ip != "" {
				return ip
			}
		}

		if host := remoteHost(r.RemoteAddr); host != "" {
			return host
		}

		if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
			return origin
		}
		return string(domain.AnonymousKey)
	}
}

func forwardedFor(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		// pega o primeiro IP do X-Forwarded-For (cliente original)
		first, _, _ := strings.Cut(values[0], ",")
		return strings.TrimSpace(first)
	default:
		return values[0]
	}
}

func remoteHost(addr string) string {
	addr = strings.TrimSpace(addr)
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return addr
}

func defaultReject(w http.ResponseWriter, _ *http.Request, _ domain.Decision) {
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.OnReject == nil {
		opts.OnReject = defaultReject
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.TrustXForwardedFor)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	svc := application.Service{
		Log: opts.Log,
		Now: now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			dec := svc.Decide(domain.Key(key))

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Log.(rateInfo); ok {
					w.Header().Set("X-RateLimit-Limit", formatInt(ri.Limit()))
					w.Header().Set("X-RateLimit-Window", formatFloat(ri.Window().Seconds()))
				}
				w.Header().Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
			}

			if opts.Stats != nil {
				err := opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      now(),
				})
				if err != nil && opts.OnStatsError != nil {
					opts.OnStatsError(err)
				}
			}

			if !dec.Allowed {
				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(dec.RetryAfter)))
				opts.OnReject(w, r, dec)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
