// Package domain define contratos e tipos de domínio do SDK z-secure.
//
// Este pacote não depende de net/http nem de implementações concretas.
// Regras, payload de proteção, decisão e portas (Transport, Logger,
// StatsStore, SlotPool, Throttle) vivem aqui para que a camada application
// possa ser testada com fakes puros.
package domain
