package ports

import "github.com/amancio-obras/estoque-obras/internal/domain/entity"

// MovementObserver recebe notificação de cada escrita no razão (métricas, auditoria).
type MovementObserver interface {
	MovementRecorded(m *entity.Movement)
	MovementDeleted(m *entity.Movement)
}

// NopObserver não faz nada.
type NopObserver struct{}

func (NopObserver) MovementRecorded(*entity.Movement) {}
func (NopObserver) MovementDeleted(*entity.Movement)  {}
