// Package ratelimit fornece adapters HTTP (net/http) para o limite de requisições por
// origem e para o limite de concorrência das chamadas ao modelo.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny com relógio, acquire/timeout) sem net/http
//   - infra: implementações concretas (janela deslizante, semáforo, estatísticas)
//   - ratelimit (este pacote): middlewares HTTP + resolução da chave + tradução para status/headers
//
// Fluxo em POST /study:
//
//  1. Resolve a chave do cliente (X-Forwarded-For / RemoteAddr / Origin / "anonymous")
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, define Retry-After e delega a resposta ao OnReject (429)
//  4. Se permitido, chama o próximo handler
//
// O limite é fixo: domain.DefaultLimit requisições por domain.DefaultWindow.
package ratelimit
