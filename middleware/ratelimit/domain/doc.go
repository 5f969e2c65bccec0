// Package domain define contratos e tipos de domínio para rate limit e concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros (com relógio explícito) e desacoplar
// a regra da janela deslizante dos detalhes de infraestrutura.
package domain
