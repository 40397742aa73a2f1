package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementa ProductRepository sobre PostgreSQL (usável com pool ou tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository constrói o adaptador de persistência de produtos. Passar pool ou tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `codigo, descricao, unidade, categoria, created_at`

// Create persiste um novo produto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO produtos (codigo, descricao, unidade, categoria, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.Code, p.Description, p.Unit, p.Category, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert produto", err)
	}
	return nil
}

// GetByCode obtém um produto pelo código. Devolve nil, nil se não existir.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM produtos WHERE codigo = $1`, code)
}

// LockByCode obtém o produto bloqueando a linha até o fim da transação.
func (r *ProductRepo) LockByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM produtos WHERE codigo = $1 FOR UPDATE`, code)
}

func (r *ProductRepo) getOne(ctx context.Context, query, code string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, code).Scan(&p.Code, &p.Description, &p.Unit, &p.Category, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get produto", err)
	}
	return &p, nil
}

// List devolve o catálogo ordenado por código.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM produtos ORDER BY codigo`)
	if err != nil {
		return nil, wrap("list produtos", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.Code, &p.Description, &p.Unit, &p.Category, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ExistingCodes devolve quais dos códigos informados já estão cadastrados.
func (r *ProductRepo) ExistingCodes(ctx context.Context, codes []string) (map[string]bool, error) {
	out := make(map[string]bool, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT codigo FROM produtos WHERE codigo = ANY($1)`, codes)
	if err != nil {
		return nil, wrap("existing codes", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan codigo: %w", err)
		}
		out[c] = true
	}
	return out, rows.Err()
}

// Count devolve o número de itens cadastrados.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM produtos`).Scan(&n); err != nil {
		return 0, wrap("count produtos", err)
	}
	return n, nil
}

// wrap anota o erro e o marca como ErrUnavailable quando for falha de conexão.
func wrap(op string, err error) error {
	if isConnectionError(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
