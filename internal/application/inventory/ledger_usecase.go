package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/inventory"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// LedgerUseCase leituras do razão: tabela de saldo e histórico, servidas pelo cache de leitura.
type LedgerUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	cache        ports.Cache
	ttl          time.Duration
	lowThreshold decimal.Decimal
	log          *logger.Logger
	now          func() time.Time
}

// LedgerConfig parâmetros de leitura.
type LedgerConfig struct {
	Cache        ports.Cache
	TTL          time.Duration
	LowThreshold int
	Logger       *logger.Logger
}

// NewLedgerUseCase constrói o caso de uso de leitura.
func NewLedgerUseCase(productRepo repository.ProductRepository, movementRepo repository.MovementRepository, cfg LedgerConfig) *LedgerUseCase {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		cache:        cfg.Cache,
		ttl:          cfg.TTL,
		lowThreshold: decimal.NewFromInt(int64(cfg.LowThreshold)),
		log:          log,
		now:          time.Now,
	}
}

// LowThreshold limite abaixo do qual o saldo é considerado baixo.
func (uc *LedgerUseCase) LowThreshold() decimal.Decimal { return uc.lowThreshold }

// Balances devolve a tabela de saldo (uma linha por código), via cache.
func (uc *LedgerUseCase) Balances(ctx context.Context) (*dto.BalanceListResponse, error) {
	return ReadThrough(ctx, uc.cache, uc.log, keyBalances, uc.ttl, func() (*dto.BalanceListResponse, error) {
		balances, err := uc.CalculateBalances(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]dto.BalanceResponse, 0, len(balances))
		for _, b := range balances {
			items = append(items, uc.ToBalanceResponse(b))
		}
		return &dto.BalanceListResponse{Items: items, GeneratedAt: uc.now()}, nil
	})
}

// CalculateBalances lê catálogo e razão completos e agrega, sem cache.
func (uc *LedgerUseCase) CalculateBalances(ctx context.Context) ([]entity.Balance, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	movements, err := uc.movementRepo.List(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, err
	}
	return inventory.CalculateBalances(products, movements), nil
}

// ListMovements devolve o histórico filtrado e paginado, via cache.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	filter, err := ToMovementFilter(in)
	if err != nil {
		return nil, err
	}
	key := movementsKey(filter.Code, filter.Type, filter.Site, in.From, in.To, filter.Limit, filter.Offset)
	return ReadThrough(ctx, uc.cache, uc.log, key, uc.ttl, func() (*dto.MovementListResponse, error) {
		list, err := uc.movementRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		total, err := uc.movementRepo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		items := make([]dto.MovementResponse, 0, len(list))
		for _, m := range list {
			items = append(items, ToMovementResponse(m))
		}
		return &dto.MovementListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
		}, nil
	})
}

// AllMovements devolve o histórico filtrado sem paginação nem cache (exportações).
func (uc *LedgerUseCase) AllMovements(ctx context.Context, in dto.MovementFilterRequest) ([]*entity.Movement, error) {
	filter, err := ToMovementFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = 0, 0
	return uc.movementRepo.List(ctx, filter)
}

// ToMovementFilter converte os filtros da query string para o filtro do repositório.
func ToMovementFilter(in dto.MovementFilterRequest) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		Code:   in.Code,
		Type:   in.Type,
		Site:   in.Site,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.Type != "" && !entity.IsValidMovementType(in.Type) {
		return f, domain.ErrInvalidInput
	}
	if in.From != "" {
		d, err := time.Parse(DateLayout, in.From)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		f.From = &d
	}
	if in.To != "" {
		d, err := time.Parse(DateLayout, in.To)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		f.To = &d
	}
	return f, nil
}

// ToBalanceResponse converte um saldo para a resposta HTTP, marcando saldo baixo.
func (uc *LedgerUseCase) ToBalanceResponse(b entity.Balance) dto.BalanceResponse {
	out := dto.BalanceResponse{
		Code:        b.Code,
		Description: b.Description,
		Unit:        b.Unit,
		Category:    b.Category,
		Quantity:    b.Quantity,
		AverageCost: b.AverageCost.Round(4),
		TotalValue:  b.TotalValue.Round(2),
		TotalIn:     b.TotalIn,
		TotalOut:    b.TotalOut,
		Orphan:      b.Orphan,
		Low:         b.Quantity.LessThan(uc.lowThreshold),
	}
	if b.LastMovement != nil {
		out.LastMovement = b.LastMovement.Format(DateLayout)
	}
	return out
}

// ToMovementResponse converte uma movimentação para a resposta HTTP.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		Type:        m.Type,
		Date:        m.Date.Format(DateLayout),
		Site:        m.Site,
		Code:        m.Code,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		Reference:   m.Reference,
		SC:          m.SC,
		Mapa:        m.Mapa,
		OC:          m.OC,
		CreatedAt:   m.CreatedAt,
	}
}
