// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - HTTPTransport: POST JSON via net/http (HTTP/2 opcional com golang.org/x/net/http2)
//   - Throttle: vazão de saída com golang.org/x/time/rate
//   - ChanPool: semáforo simples para limitar chamadas em voo
//   - LogrusLogger: domain.Logger sobre github.com/sirupsen/logrus
//   - MemoryStatsStore / RedisStatsStore: contadores de desfecho
package infra
