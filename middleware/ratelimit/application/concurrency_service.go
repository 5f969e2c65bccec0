package application

import (
	"context"
	"errors"
	"time"

	"study-gateway/middleware/ratelimit/domain"
)

// ErrNoSlot indica que o limite de chamadas simultâneas foi atingido dentro do timeout.
var ErrNoSlot = errors.New("nenhuma vaga de processamento disponível")

// ConcurrencyService concentra a regra de aquisição/liberação de vagas com timeout,
// sem saber nada sobre HTTP.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - Se AcquireTimeout <= 0, espera até o ctx da requisição encerrar.
//   - Se AcquireTimeout > 0, espera no máximo o timeout.
//
// Quando o próprio ctx foi cancelado (cliente desistiu) retorna ctx.Err();
// quando apenas o timeout estourou retorna ErrNoSlot.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), error) {
	if s.Pool == nil {
		return func() {}, nil
	}

	acqCtx := ctx
	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(acqCtx)
	if ok {
		return release, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoSlot
}
