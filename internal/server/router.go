// Package server monta as rotas HTTP e cuida do ciclo de vida do servidor.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"study-gateway/internal/apierror"
	"study-gateway/internal/observability"
	"study-gateway/internal/study"
	"study-gateway/middleware/ratelimit"
	"study-gateway/middleware/ratelimit/domain"
)

type RouterOptions struct {
	Logger  hclog.Logger
	Metrics *observability.Metrics
	Study   *study.Handler

	// RequestLog é o registro do rate limiter de POST /study. Obrigatório.
	RequestLog          domain.RequestLog
	Now                 func() time.Time
	Stats               domain.StatsStore
	TrustXForwardedFor  bool
	AddRateLimitHeaders bool

	// SlotPool limita as chamadas simultâneas a /study. nil desliga.
	SlotPool       domain.SlotPool
	AcquireTimeout time.Duration
}

func NewRouter(opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	limiterLog := log.Named("ratelimit")

	rateLimit := ratelimit.Middleware(ratelimit.Options{
		Log:                 opts.RequestLog,
		Now:                 opts.Now,
		Stats:               opts.Stats,
		TrustXForwardedFor:  opts.TrustXForwardedFor,
		AddRateLimitHeaders: opts.AddRateLimitHeaders,
		OnStatsError: func(err error) {
			limiterLog.Warn("falha ao registrar estatística", "error", err)
		},
		OnReject: func(w http.ResponseWriter, r *http.Request, dec domain.Decision) {
			limiterLog.Info("requisição bloqueada",
				"request_id", RequestID(r.Context()),
				"retry_after", dec.RetryAfter,
			)
			apierror.Write(w, apierror.RateLimited())
		},
	})

	inFlight := ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Pool:           opts.SlotPool,
		AcquireTimeout: opts.AcquireTimeout,
		OnReject: func(w http.ResponseWriter, r *http.Request) {
			limiterLog.Warn("sem vaga de processamento", "request_id", RequestID(r.Context()))
			apierror.Write(w, apierror.Busy())
		},
	})

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(instrument(log.Named("http"), opts.Metrics))

	notFound := func(w http.ResponseWriter, r *http.Request) {
		apierror.Write(w, apierror.NotFound(r.Method, r.URL.Path))
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.With(rateLimit, inFlight).Post("/study", opts.Study.Study)
	r.Get("/health", opts.Study.Health)
	r.Get("/docs-json", docsHandler())
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
