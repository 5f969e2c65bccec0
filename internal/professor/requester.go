// Package professor transforma a pergunta do estudante numa explicação gerada
// pelo modelo.
package professor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"study-gateway/internal/observability"
)

var (
	// ErrOverloaded indica que o modelo respondeu 503.
	ErrOverloaded = errors.New("modelo sobrecarregado")
	// ErrEmptyResponse indica que o modelo respondeu sem texto.
	ErrEmptyResponse = errors.New("modelo não retornou texto")
)

// UpstreamError é qualquer erro de API do modelo que não seja sobrecarga.
type UpstreamError struct {
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("erro %d do modelo", e.Code)
	}
	return e.Message
}

// Explanation é a resposta de POST /study.
type Explanation struct {
	Question    string `json:"question" jsonschema:"example=O que é derivada?" jsonschema_description:"Pergunta do estudante, sem espaços nas pontas"`
	Explanation string `json:"explanation" jsonschema_description:"Resposta estruturada pelo professor virtual"`
}

// Generator é o modelo de linguagem: recebe o prompt e devolve o texto bruto.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type UpstreamObserver interface {
	ObserveUpstream(outcome string, d time.Duration)
}

type Requester struct {
	gen     Generator
	pacer   *rate.Limiter
	metrics UpstreamObserver
	log     hclog.Logger
}

type Option func(*Requester)

// WithPacer limita o ritmo de chamadas ao modelo. rps <= 0 desliga.
func WithPacer(rps float64, burst int) Option {
	return func(r *Requester) {
		if rps <= 0 {
			r.pacer = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		r.pacer = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMetrics(m UpstreamObserver) Option {
	return func(r *Requester) { r.metrics = m }
}

func WithLogger(l hclog.Logger) Option {
	return func(r *Requester) { r.log = l }
}

func NewRequester(gen Generator, opts ...Option) *Requester {
	r := &Requester{gen: gen, log: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Explain pede ao modelo a explicação de uma pergunta já validada.
func (r *Requester) Explain(ctx context.Context, question string) (Explanation, error) {
	question = strings.TrimSpace(question)

	if r.pacer != nil {
		if err := r.pacer.Wait(ctx); err != nil {
			return Explanation{}, fmt.Errorf("aguardando vez para chamar o modelo: %w", err)
		}
	}

	start := time.Now()
	text, err := r.gen.Generate(ctx, BuildPrompt(question))
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	r.observe(err, time.Since(start))

	if err != nil {
		r.log.Warn("falha ao chamar o modelo", "error", err)
		return Explanation{}, err
	}

	r.log.Debug("explicação gerada", "question_chars", len(question), "explanation_chars", len(text))
	return Explanation{Question: question, Explanation: text}, nil
}

func (r *Requester) observe(err error, d time.Duration) {
	if r.metrics == nil {
		return
	}
	outcome := observability.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrOverloaded):
		outcome = observability.OutcomeOverloaded
	case errors.Is(err, ErrEmptyResponse):
		outcome = observability.OutcomeEmpty
	default:
		outcome = observability.OutcomeError
	}
	r.metrics.ObserveUpstream(outcome, d)
}
