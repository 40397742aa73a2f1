package inventory

import (
	"context"

	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando repositórios presos a essa tx.
// Garante que a checagem de saldo e o insert da Saída sejam atômicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error) error
}
