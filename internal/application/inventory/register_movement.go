package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/inventory"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// Limites das colunas quantidade NUMERIC(14,3) e custo_unitario NUMERIC(14,4).
const (
	quantityScale = 3
	unitCostScale = 4
)

var (
	maxQuantity = decimal.New(1, 14-quantityScale)
	maxUnitCost = decimal.New(1, 14-unitCostScale)
)

// RegisterMovementUseCase grava e remove linhas do razão de movimentações.
// Com enforceBalance ligado, Saída e Ajuste(-), e a exclusão de linhas que somam ao saldo,
// rodam numa transação que bloqueia a linha do produto (SELECT FOR UPDATE) antes de reler o saldo.
type RegisterMovementUseCase struct {
	txRunner       TxRunner
	cache          ports.Cache
	observer       ports.MovementObserver
	log            *logger.Logger
	enforceBalance bool
	now            func() time.Time
}

// RegisterMovementConfig dependências opcionais do caso de uso.
type RegisterMovementConfig struct {
	Cache          ports.Cache
	Observer       ports.MovementObserver
	Logger         *logger.Logger
	EnforceBalance bool
}

// NewRegisterMovementUseCase constrói o caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, cfg RegisterMovementConfig) *RegisterMovementUseCase {
	uc := &RegisterMovementUseCase{
		txRunner:       txRunner,
		cache:          cfg.Cache,
		observer:       cfg.Observer,
		log:            cfg.Logger,
		enforceBalance: cfg.EnforceBalance,
		now:            time.Now,
	}
	if uc.observer == nil {
		uc.observer = ports.NopObserver{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// MovementInputDTO entrada para registrar uma movimentação.
// Date nil = hoje. UnitCost só é relevante para Entrada (custo médio).
type MovementInputDTO struct {
	Type      string
	Date      *time.Time
	Site      string
	Code      string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Reference string
	SC        string
	Mapa      string
	OC        string
}

// RecordMovement valida a entrada, copia a descrição do produto e anexa uma linha ao razão.
// Erros: ErrInvalidInput, ErrNotFound (código não cadastrado), ErrInsufficientStock.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	input.Code = strings.TrimSpace(input.Code)
	if !entity.IsValidMovementType(input.Type) || input.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) || !fitsColumn(input.Quantity, quantityScale, maxQuantity) {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitCost != nil && (input.UnitCost.LessThan(decimal.Zero) || !fitsColumn(*input.UnitCost, unitCostScale, maxUnitCost)) {
		return nil, domain.ErrInvalidInput
	}

	mov := &entity.Movement{
		Type:      input.Type,
		Date:      uc.dateOrToday(input.Date),
		Site:      strings.TrimSpace(input.Site),
		Code:      input.Code,
		Quantity:  input.Quantity,
		UnitCost:  input.UnitCost,
		Reference: strings.TrimSpace(input.Reference),
		SC:        strings.TrimSpace(input.SC),
		Mapa:      strings.TrimSpace(input.Mapa),
		OC:        strings.TrimSpace(input.OC),
	}
	checkBalance := uc.enforceBalance && mov.IsOutgoing()

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movementRepo repository.MovementRepository) error {
		var product *entity.Product
		var err error
		if checkBalance {
			product, err = productRepo.LockByCode(ctx, mov.Code)
		} else {
			product, err = productRepo.GetByCode(ctx, mov.Code)
		}
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		mov.Description = product.Description

		if checkBalance {
			balance, err := movementRepo.BalanceOf(ctx, mov.Code)
			if err != nil {
				return err
			}
			if balance.LessThan(mov.Quantity) {
				uc.log.Warn().
					Str("codigo", mov.Code).
					Str("saldo", balance.String()).
					Str("quantidade", mov.Quantity.String()).
					Msg("saída recusada: saldo insuficiente")
				return domain.ErrInsufficientStock
			}
		}
		return movementRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	InvalidateReadCache(ctx, uc.cache, uc.log)
	uc.observer.MovementRecorded(mov)
	uc.log.Info().
		Int64("id", mov.ID).
		Str("tipo", mov.Type).
		Str("codigo", mov.Code).
		Str("quantidade", mov.Quantity.String()).
		Msg("movimentação registrada")
	return mov, nil
}

// DeleteMovement remove uma linha do razão pelo id, revertendo sua contribuição ao saldo.
// Com enforceBalance ligado, excluir uma Entrada ou Ajuste(+) que deixaria o saldo negativo
// devolve ErrInsufficientStock.
func (uc *RegisterMovementUseCase) DeleteMovement(ctx context.Context, id int64) (*entity.Movement, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movementRepo repository.MovementRepository) error {
		var err error
		mov, err = movementRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if uc.enforceBalance && inventory.Sign(mov.Type) > 0 {
			if _, err := productRepo.LockByCode(ctx, mov.Code); err != nil {
				return err
			}
			// relê depois do bloqueio: outra transação pode ter alterado a linha
			mov, err = movementRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if mov == nil {
				return domain.ErrNotFound
			}
			balance, err := movementRepo.BalanceOf(ctx, mov.Code)
			if err != nil {
				return err
			}
			if balance.LessThan(mov.Quantity) {
				uc.log.Warn().
					Int64("id", id).
					Str("codigo", mov.Code).
					Str("saldo", balance.String()).
					Msg("exclusão recusada: saldo ficaria negativo")
				return domain.ErrInsufficientStock
			}
		}
		return movementRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	InvalidateReadCache(ctx, uc.cache, uc.log)
	uc.observer.MovementDeleted(mov)
	uc.log.Info().Int64("id", id).Str("codigo", mov.Code).Str("tipo", mov.Type).Msg("movimentação removida")
	return mov, nil
}

// fitsColumn indica se v cabe numa coluna NUMERIC com a escala dada sem arredondamento.
func fitsColumn(v decimal.Decimal, scale int32, limit decimal.Decimal) bool {
	return v.Round(scale).Equal(v) && v.Abs().LessThan(limit)
}

func (uc *RegisterMovementUseCase) dateOrToday(d *time.Time) time.Time {
	t := uc.now()
	if d != nil {
		t = *d
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
