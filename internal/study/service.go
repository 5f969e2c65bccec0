// Package study implementa o caso de uso "perguntar ao professor" e seus
// handlers HTTP.
package study

import (
	"context"
	"errors"
	"strings"

	"study-gateway/internal/apierror"
	"study-gateway/internal/professor"
)

type Explainer interface {
	Explain(ctx context.Context, question string) (professor.Explanation, error)
}

type Service struct {
	explainer Explainer
}

func NewService(e Explainer) *Service {
	return &Service{explainer: e}
}

// Ask valida a pergunta e traduz as falhas do modelo para *apierror.Error.
func (s *Service) Ask(ctx context.Context, question string) (professor.Explanation, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return professor.Explanation{}, apierror.Validation(apierror.MsgQuestionRequired)
	}

	out, err := s.explainer.Explain(ctx, question)
	if err != nil {
		return professor.Explanation{}, classify(err)
	}
	return out, nil
}

func classify(err error) *apierror.Error {
	switch {
	case errors.Is(err, professor.ErrOverloaded):
		return apierror.Unavailable(err)
	case errors.Is(err, professor.ErrEmptyResponse):
		return apierror.UpstreamEmpty(err)
	default:
		return apierror.Internal(err)
	}
}
