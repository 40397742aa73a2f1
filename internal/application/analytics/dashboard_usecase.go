// Package analytics contém o caso de uso do painel de controle.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	appinv "github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/inventory"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// DashboardUseCase monta as métricas do painel e a série do gráfico Descrição × Saldo.
type DashboardUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	ledger       *appinv.LedgerUseCase
	cache        ports.Cache
	ttl          time.Duration
	threshold    int
	log          *logger.Logger
	now          func() time.Time
}

// NewDashboardUseCase constrói o caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	ledger *appinv.LedgerUseCase,
	cfg appinv.LedgerConfig,
) *DashboardUseCase {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		ledger:       ledger,
		cache:        cfg.Cache,
		ttl:          cfg.TTL,
		threshold:    cfg.LowThreshold,
		log:          log,
		now:          time.Now,
	}
}

// GetSummary devolve o painel, servido pelo cache de leitura.
//
// Três leituras em paralelo:
//  1. Count de produtos   → itens cadastrados
//  2. Count do razão      → movimentações realizadas
//  3. Tabela de saldo     → saldo baixo, valor total, gráfico
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	return appinv.ReadThrough(ctx, uc.cache, uc.log, appinv.DashboardCacheKey, uc.ttl, func() (*dto.DashboardDTO, error) {
		return uc.build(ctx)
	})
}

func (uc *DashboardUseCase) build(ctx context.Context) (*dto.DashboardDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	type balancesResult struct {
		balances []entity.Balance
		err      error
	}

	productsCh := make(chan countResult, 1)
	movementsCh := make(chan countResult, 1)
	balancesCh := make(chan balancesResult, 1)

	go func() {
		n, err := uc.productRepo.Count(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.movementRepo.Count(ctx, repository.MovementFilter{})
		movementsCh <- countResult{n, err}
	}()
	go func() {
		b, err := uc.ledger.CalculateBalances(ctx)
		balancesCh <- balancesResult{b, err}
	}()

	products := <-productsCh
	movements := <-movementsCh
	balances := <-balancesCh

	if products.err != nil {
		return nil, fmt.Errorf("painel: itens cadastrados: %w", products.err)
	}
	if movements.err != nil {
		return nil, fmt.Errorf("painel: movimentações: %w", movements.err)
	}
	if balances.err != nil {
		return nil, fmt.Errorf("painel: saldos: %w", balances.err)
	}

	totals := inventory.Summarize(balances.balances, decimal.NewFromInt(int64(uc.threshold)))
	chart := make([]dto.ChartPointDTO, 0, len(balances.balances))
	for _, b := range balances.balances {
		chart = append(chart, dto.ChartPointDTO{Label: chartLabel(b), Value: b.Quantity})
	}

	return &dto.DashboardDTO{
		ProductCount:  products.n,
		MovementCount: movements.n,
		LowStockCount: totals.LowStock,
		LowThreshold:  uc.threshold,
		TotalValue:    totals.TotalValue.Round(2),
		Chart:         chart,
		GeneratedAt:   uc.now(),
	}, nil
}

// chartLabel usa a descrição; sem ela, o código.
func chartLabel(b entity.Balance) string {
	if b.Description != "" {
		return b.Description
	}
	return b.Code
}
