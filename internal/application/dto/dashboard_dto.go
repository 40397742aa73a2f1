package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardDTO resposta de GET /api/dashboard: métricas do painel e série do gráfico de barras.
type DashboardDTO struct {
	ProductCount  int             `json:"itens_cadastrados"`
	MovementCount int             `json:"movimentacoes_realizadas"`
	LowStockCount int             `json:"itens_saldo_baixo"`
	LowThreshold  int             `json:"limite_saldo_baixo"`
	TotalValue    decimal.Decimal `json:"valor_total_estoque"`
	Chart         []ChartPointDTO `json:"grafico"`
	GeneratedAt   time.Time       `json:"gerado_em"`
}

// ChartPointDTO um ponto do gráfico Descrição × Saldo.
type ChartPointDTO struct {
	Label string          `json:"descricao"`
	Value decimal.Decimal `json:"saldo"`
}
