// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - SlidingLog: registro de timestamps por chave (janela deslizante) com limpeza periódica
//   - SlotPool: semáforo simples para limite de concorrência
//   - RedisStatsStore / PromStatsStore: estatísticas das decisões
package infra
