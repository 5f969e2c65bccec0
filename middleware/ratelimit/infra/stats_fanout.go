package infra

import (
	"context"
	"errors"

	"study-gateway/middleware/ratelimit/domain"
)

// FanoutStats repassa cada evento para todos os stores, acumulando os erros.
type FanoutStats []domain.StatsStore

func (f FanoutStats) Record(ctx context.Context, ev domain.StatsEvent) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
