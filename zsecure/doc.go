// Package zsecure é o cliente Go do serviço de proteção z-secure.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (regras, payload, decisão; sem net/http)
//   - application: casos de uso (identidade, chave, normalização, validação, dispatcher)
//   - infra: implementações concretas (transporte HTTP, throttle, logrus, stats)
//   - config: leitura de ambiente/.env e arquivos de regras YAML/TOML
//   - zsecure (este pacote): construção do cliente, adaptador de *http.Request e middleware
//
// Fluxo de Protect:
//
//   1) Se não houver userID, resolve o IP do cliente (X-Forwarded-For, remote addr, plataforma)
//   2) Normaliza a regra de rate limit e/ou shield no payload
//   3) Valida o payload localmente (falha => negação 400, sem chamada de rede)
//   4) POST {baseUrl}/protection e devolve o corpo remoto sem alterações,
//      ou uma negação local (429, 500, 503, 504)
//
// Exemplo:
//
//	client, err := zsecure.New(zsecure.Options{
//		APIKey: os.Getenv("ZSECURE_API_KEY"),
//		RateLimitingRule: domain.FixedWindowRule{Mode: domain.ModeLive, WindowMs: 60000, Limit: 5},
//	})
//	dec := client.ProtectHTTP(r, "user-123", nil)
package zsecure
