package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementação sobre PostgreSQL do razão de movimentações (usável com pool ou tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, tipo, data, obra, codigo, descricao, quantidade, custo_unitario, referencia, sc, mapa, oc, created_at`

// signedQuantitySQL espelha inventory.Sign para agregações feitas no banco.
const signedQuantitySQL = `CASE
	WHEN tipo IN ('Entrada', 'Ajuste(+)') THEN quantidade
	WHEN tipo IN ('Saída', 'Ajuste(-)') THEN -quantidade
	ELSE 0 END`

// Create persiste a movimentação e preenche ID e CreatedAt.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movimentacoes (tipo, data, obra, codigo, descricao, quantidade, custo_unitario, referencia, sc, mapa, oc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.Type, m.Date, m.Site, m.Code, m.Description, m.Quantity, m.UnitCost,
		m.Reference, m.SC, m.Mapa, m.OC,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return wrap("insert movimentação", err)
	}
	return nil
}

// GetByID obtém uma movimentação pelo id. Devolve nil, nil se não existir.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	row := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movimentacoes WHERE id = $1`, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get movimentação", err)
	}
	return m, nil
}

// Delete remove a movimentação. ErrNotFound se o id não existir.
func (r *MovementRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movimentacoes WHERE id = $1`, id)
	if err != nil {
		return wrap("delete movimentação", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devolve o histórico filtrado, mais recente primeiro.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	where, args := buildWhere(f)
	query := `SELECT ` + movementColumns + ` FROM movimentacoes` + where + ` ORDER BY data DESC, id DESC`
	pos := len(args) + 1
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list movimentações", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimentação: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Count devolve o total de movimentações que atendem ao filtro (ignora Limit/Offset).
func (r *MovementRepo) Count(ctx context.Context, f repository.MovementFilter) (int, error) {
	where, args := buildWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movimentacoes`+where, args...).Scan(&n); err != nil {
		return 0, wrap("count movimentações", err)
	}
	return n, nil
}

// BalanceOf devolve o saldo de um código somando o razão no banco.
func (r *MovementRepo) BalanceOf(ctx context.Context, code string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(`+signedQuantitySQL+`), 0) FROM movimentacoes WHERE codigo = $1`, code,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, wrap("saldo", err)
	}
	return total, nil
}

func buildWhere(f repository.MovementFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Code != "" {
		add("codigo = $%d", f.Code)
	}
	if f.Type != "" {
		add("tipo = $%d", f.Type)
	}
	if f.Site != "" {
		add("obra ILIKE '%%' || $%d || '%%'", f.Site)
	}
	if f.From != nil {
		add("data >= $%d", *f.From)
	}
	if f.To != nil {
		add("data <= $%d", *f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var unitCost decimal.NullDecimal
	if err := row.Scan(&m.ID, &m.Type, &m.Date, &m.Site, &m.Code, &m.Description, &m.Quantity,
		&unitCost, &m.Reference, &m.SC, &m.Mapa, &m.OC, &m.CreatedAt); err != nil {
		return nil, err
	}
	if unitCost.Valid {
		c := unitCost.Decimal
		m.UnitCost = &c
	}
	return &m, nil
}
