package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
)

// MovementFilter filtros do histórico. Campos vazios/nil não filtram.
type MovementFilter struct {
	Code   string
	Type   string
	Site   string
	From   *time.Time
	To     *time.Time
	Limit  int // 0 = sem limite
	Offset int
}

// MovementRepository define o porto de persistência do razão (tabela movimentacoes).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	Count(ctx context.Context, filter MovementFilter) (int, error)
	// BalanceOf devolve o saldo atual de um código (soma ponderada pelo sinal do tipo).
	BalanceOf(ctx context.Context, code string) (decimal.Decimal, error)
}
