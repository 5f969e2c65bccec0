package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

// Key identifica a origem de uma requisição (IP, header, etc).
type Key string

const (
	// DefaultLimit é o máximo de requisições admitidas por chave dentro da janela.
	DefaultLimit = 5
	// DefaultWindow é a duração da janela deslizante.
	DefaultWindow = 60 * time.Second

	// AnonymousKey agrupa todos os clientes que não puderam ser identificados.
	AnonymousKey Key = "anonymous"
)

// RequestLog decide, por chave, se uma requisição pode seguir.
//
// A decisão é tomada sobre o registro de timestamps da chave: timestamps com
// idade >= janela são descartados, e a requisição só é registrada se for admitida.
// Implementações devem tornar Decide atômico por chave.
type RequestLog interface {
	Decide(key Key, now time.Time) Decision
}

type Decision struct {
	Allowed bool
	// Remaining é quantas requisições ainda cabem na janela após esta decisão.
	Remaining int
	// RetryAfter é o tempo até o timestamp mais antigo expirar (só quando bloqueado).
	RetryAfter time.Duration
}
