package ratelimit

import (
	"errors"
	"net/http"
	"time"

	"study-gateway/middleware/ratelimit/application"
	"study-gateway/middleware/ratelimit/domain"
)

type ConcurrencyOptions struct {
	// Pool limita as requisições simultâneas. Se nil, o middleware não faz nada.
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
	// OnReject escreve a resposta quando não houve vaga no timeout.
	// Padrão: 503 em texto puro.
	OnReject func(w http.ResponseWriter, r *http.Request)
}

func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.OnReject == nil {
		opts.OnReject = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	}

	svc := application.ConcurrencyService{
		Pool:           opts.Pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				if errors.Is(err, application.ErrNoSlot) {
					opts.OnReject(w, r)
				}
				// cliente desistiu: não há para quem responder.
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
