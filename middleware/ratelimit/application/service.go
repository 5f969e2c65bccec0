package application

import (
	"time"

	"study-gateway/middleware/ratelimit/domain"
)

// Service concentra a regra de aplicação do rate limit.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Log domain.RequestLog
	// Now é o relógio usado nas decisões. Se nil, usa time.Now.
	Now func() time.Time
}

func (s Service) Decide(key domain.Key) domain.Decision {
	if s.Log == nil {
		return domain.Decision{Allowed: true}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	dec := s.Log.Decide(key, now())
	if !dec.Allowed && dec.RetryAfter <= 0 {
		dec.RetryAfter = 1 * time.Second
	}
	return dec
}
