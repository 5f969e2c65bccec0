package infra

import (
	"sync"
	"time"

	"study-gateway/middleware/ratelimit/domain"
)

// SlidingLog é o registro de requisições por chave com janela deslizante.
//
// Cada chave guarda os instantes das requisições admitidas. A cada acesso os
// instantes com idade >= window são descartados; se sobrarem limit ou mais, a
// requisição é rejeitada e não é registrada.
type SlidingLog struct {
	mu         sync.Mutex
	entries    map[domain.Key][]time.Time
	limit      int
	window     time.Duration
	sweepEvery time.Duration
}

type LogOption func(*SlidingLog)

// WithSweepEvery define o intervalo do janitor. 0 desliga a limpeza periódica.
func WithSweepEvery(d time.Duration) LogOption {
	return func(s *SlidingLog) { s.sweepEvery = d }
}

func NewSlidingLog(limit int, window time.Duration, opts ...LogOption) *SlidingLog {
	s := &SlidingLog{
		entries:    make(map[domain.Key][]time.Time),
		limit:      limit,
		window:     window,
		sweepEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SlidingLog) Limit() int                { return s.limit }
func (s *SlidingLog) Window() time.Duration     { return s.window }
func (s *SlidingLog) SweepEvery() time.Duration { return s.sweepEvery }

// Decide implementa domain.RequestLog.
func (s *SlidingLog) Decide(key domain.Key, now time.Time) domain.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.fresh(s.entries[key], now)

	if len(kept) >= s.limit {
		s.store(key, kept)
		retry := s.window
		if len(kept) > 0 {
			retry = kept[0].Add(s.window).Sub(now)
		}
		return domain.Decision{Allowed: false, RetryAfter: retry}
	}

	kept = append(kept, now)
	s.store(key, kept)
	return domain.Decision{Allowed: true, Remaining: s.limit - len(kept)}
}

// Admit é a forma booleana de Decide.
func (s *SlidingLog) Admit(key string, now time.Time) bool {
	return s.Decide(domain.Key(key), now).Allowed
}

// Len retorna quantas chaves estão no registro.
func (s *SlidingLog) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep remove as chaves cujos timestamps já expiraram todos.
// Uma chave ausente e uma chave só com timestamps expirados produzem a mesma
// decisão, então a limpeza não altera a admissão.
func (s *SlidingLog) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, ts := range s.entries {
		kept := s.fresh(ts, now)
		if len(kept) == 0 {
			delete(s.entries, k)
			removed++
			continue
		}
		s.entries[k] = kept
	}
	return removed
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *SlidingLog) StartJanitor(ctx DoneContext, onSweep func(removed int)) {
	if s.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(s.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n := s.Sweep(now); n > 0 && onSweep != nil {
					onSweep(n)
				}
			}
		}
	}()
}

// fresh filtra (in place) os timestamps ainda dentro da janela.
func (s *SlidingLog) fresh(ts []time.Time, now time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if now.Sub(t) < s.window {
			kept = append(kept, t)
		}
	}
	return kept
}

// store grava o slice já filtrado; fresh reaproveita o array, então o valor
// antigo do mapa não pode ficar para trás.
func (s *SlidingLog) store(key domain.Key, ts []time.Time) {
	if len(ts) == 0 {
		delete(s.entries, key)
		return
	}
	s.entries[key] = ts
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar context aqui.
type DoneContext interface {
	Done() <-chan struct{}
}
