package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest corpo de POST /api/inventory/movements.
// Data no formato YYYY-MM-DD; vazia = hoje.
type RegisterMovementRequest struct {
	Type      string           `json:"tipo" validate:"required,oneof=Entrada Saída Ajuste(+) Ajuste(-)"`
	Date      string           `json:"data" validate:"omitempty,datetime=2006-01-02"`
	Site      string           `json:"obra" validate:"max=200"`
	Code      string           `json:"codigo" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantidade" validate:"gt=0"`
	UnitCost  *decimal.Decimal `json:"custo_unitario,omitempty" validate:"omitempty,gte=0"`
	Reference string           `json:"referencia" validate:"max=200"`
	SC        string           `json:"sc" validate:"max=100"`
	Mapa      string           `json:"mapa" validate:"max=100"`
	OC        string           `json:"oc" validate:"max=100"`
}

// MovementResponse saída de uma movimentação.
type MovementResponse struct {
	ID          int64            `json:"id"`
	Type        string           `json:"tipo"`
	Date        string           `json:"data"`
	Site        string           `json:"obra"`
	Code        string           `json:"codigo"`
	Description string           `json:"descricao"`
	Quantity    decimal.Decimal  `json:"quantidade"`
	UnitCost    *decimal.Decimal `json:"custo_unitario,omitempty"`
	Reference   string           `json:"referencia,omitempty"`
	SC          string           `json:"sc,omitempty"`
	Mapa        string           `json:"mapa,omitempty"`
	OC          string           `json:"oc,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// MovementFilterRequest filtros do histórico (query string).
type MovementFilterRequest struct {
	PageRequest
	Code string `query:"codigo"`
	Type string `query:"tipo" validate:"omitempty,oneof=Entrada Saída Ajuste(+) Ajuste(-)"`
	Site string `query:"obra"`
	From string `query:"de" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"ate" validate:"omitempty,datetime=2006-01-02"`
}

// MovementListResponse histórico paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse linha da tabela de saldo.
type BalanceResponse struct {
	Code         string          `json:"codigo"`
	Description  string          `json:"descricao"`
	Unit         string          `json:"unidade,omitempty"`
	Category     string          `json:"categoria,omitempty"`
	Quantity     decimal.Decimal `json:"saldo"`
	AverageCost  decimal.Decimal `json:"custo_medio"`
	TotalValue   decimal.Decimal `json:"valor_total"`
	TotalIn      decimal.Decimal `json:"total_entradas"`
	TotalOut     decimal.Decimal `json:"total_saidas"`
	LastMovement string          `json:"ultima_movimentacao,omitempty"`
	Orphan       bool            `json:"sem_cadastro,omitempty"`
	Low          bool            `json:"saldo_baixo"`
}

// BalanceListResponse tabela de saldo completa.
type BalanceListResponse struct {
	Items       []BalanceResponse `json:"items"`
	GeneratedAt time.Time         `json:"gerado_em"`
}
