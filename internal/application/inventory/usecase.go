package inventory

import (
	"context"
	"time"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	"github.com/amancio-obras/estoque-obras/internal/domain"
)

// DateLayout formato das datas trafegadas na API (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// RegisterMovementFromRequest adapta o request HTTP ao caso de uso RecordMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInputDTO{
		Type:      in.Type,
		Site:      in.Site,
		Code:      in.Code,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reference: in.Reference,
		SC:        in.SC,
		Mapa:      in.Mapa,
		OC:        in.OC,
	}
	if in.Date != "" {
		d, err := time.Parse(DateLayout, in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		input.Date = &d
	}
	mov, err := uc.RecordMovement(ctx, input)
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}
