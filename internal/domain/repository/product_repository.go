package repository

import (
	"context"

	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
)

// ProductRepository define o porto de persistência do catálogo (tabela produtos).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// LockByCode bloqueia a linha do produto (SELECT ... FOR UPDATE); só tem efeito dentro de transação.
	LockByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// ExistingCodes devolve o subconjunto de codes já cadastrado.
	ExistingCodes(ctx context.Context, codes []string) (map[string]bool, error)
	Count(ctx context.Context) (int, error)
}
