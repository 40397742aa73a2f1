package http_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/inventory"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
)

// memDB catálogo e razão em memória.
type memDB struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.Movement
	nextID    int64
	down      bool
}

func newMemDB() *memDB { return &memDB{products: map[string]*entity.Product{}} }

func (db *memDB) err() error {
	if db.down {
		return domain.ErrUnavailable
	}
	return nil
}

type memProducts struct{ db *memDB }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	if err := r.db.err(); err != nil {
		return err
	}
	if _, ok := r.db.products[p.Code]; ok {
		return domain.ErrDuplicate
	}
	r.db.products[p.Code] = p
	return nil
}

func (r memProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	if err := r.db.err(); err != nil {
		return nil, err
	}
	return r.db.products[code], nil
}

func (r memProducts) LockByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.GetByCode(ctx, code)
}

func (r memProducts) List(context.Context) ([]*entity.Product, error) {
	if err := r.db.err(); err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r memProducts) ExistingCodes(_ context.Context, codes []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, c := range codes {
		if _, ok := r.db.products[c]; ok {
			out[c] = true
		}
	}
	return out, nil
}

func (r memProducts) Count(context.Context) (int, error) {
	if err := r.db.err(); err != nil {
		return 0, err
	}
	return len(r.db.products), nil
}

type memMovements struct{ db *memDB }

func (r memMovements) Create(_ context.Context, m *entity.Movement) error {
	if err := r.db.err(); err != nil {
		return err
	}
	r.db.nextID++
	m.ID = r.db.nextID
	r.db.movements = append(r.db.movements, m)
	return nil
}

func (r memMovements) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.db.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r memMovements) Delete(_ context.Context, id int64) error {
	for i, m := range r.db.movements {
		if m.ID == id {
			r.db.movements = append(r.db.movements[:i], r.db.movements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memMovements) match(f repository.MovementFilter) []*entity.Movement {
	var out []*entity.Movement
	for i := len(r.db.movements) - 1; i >= 0; i-- {
		m := r.db.movements[i]
		if f.Code != "" && m.Code != f.Code {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Site != "" && !strings.Contains(strings.ToLower(m.Site), strings.ToLower(f.Site)) {
			continue
		}
		if f.From != nil && m.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Date.After(*f.To) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r memMovements) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	if err := r.db.err(); err != nil {
		return nil, err
	}
	out := r.match(f)
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memMovements) Count(_ context.Context, f repository.MovementFilter) (int, error) {
	if err := r.db.err(); err != nil {
		return 0, err
	}
	return len(r.match(f)), nil
}

func (r memMovements) BalanceOf(_ context.Context, code string) (decimal.Decimal, error) {
	return inventory.BalanceOf(code, r.db.movements), nil
}

type memTx struct{ db *memDB }

func (t memTx) Run(_ context.Context, fn func(repository.ProductRepository, repository.MovementRepository) error) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	return fn(memProducts{t.db}, memMovements{t.db})
}
