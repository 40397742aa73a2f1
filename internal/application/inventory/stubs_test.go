package inventory_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/inventory"
	"github.com/amancio-obras/estoque-obras/internal/domain/repository"
)

// store catálogo e razão em memória compartilhados pelos stubs.
type store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.Movement
	nextID    int64
	failWith  error
	locks     int
	// afterList roda uma vez depois que List montou o resultado, antes de devolvê-lo.
	afterList func()
}

func newStore(codes ...string) *store {
	s := &store{products: map[string]*entity.Product{}}
	for _, c := range codes {
		s.products[c] = &entity.Product{Code: c, Description: "Produto " + c, Unit: "un"}
	}
	return s
}

type stubProductRepo struct{ s *store }

func (r stubProductRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.products[p.Code]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.Code] = p
	return nil
}

func (r stubProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	return r.s.products[code], nil
}

func (r stubProductRepo) LockByCode(ctx context.Context, code string) (*entity.Product, error) {
	r.s.locks++
	return r.GetByCode(ctx, code)
}

func (r stubProductRepo) List(context.Context) ([]*entity.Product, error) {
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

func (r stubProductRepo) ExistingCodes(_ context.Context, codes []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, c := range codes {
		if _, ok := r.s.products[c]; ok {
			out[c] = true
		}
	}
	return out, nil
}

func (r stubProductRepo) Count(context.Context) (int, error) { return len(r.s.products), nil }

type stubMovementRepo struct{ s *store }

func (r stubMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	if _, ok := r.s.products[m.Code]; !ok {
		return domain.ErrNotFound
	}
	r.s.nextID++
	m.ID = r.s.nextID
	m.CreatedAt = time.Now()
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r stubMovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r stubMovementRepo) Delete(_ context.Context, id int64) error {
	for i, m := range r.s.movements {
		if m.ID == id {
			r.s.movements = append(r.s.movements[:i], r.s.movements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r stubMovementRepo) matching(f repository.MovementFilter) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range r.s.movements {
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

func (r stubMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := r.matching(f)
	if hook := r.s.afterList; hook != nil {
		r.s.afterList = nil
		hook()
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r stubMovementRepo) Count(_ context.Context, f repository.MovementFilter) (int, error) {
	return len(r.matching(f)), nil
}

func (r stubMovementRepo) BalanceOf(_ context.Context, code string) (decimal.Decimal, error) {
	return inventory.BalanceOf(code, r.s.movements), nil
}

// stubTxRunner serializa as transações com o mutex do store e descarta inserts se fn falhar.
type stubTxRunner struct{ s *store }

func (t stubTxRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.MovementRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snapshot := append([]*entity.Movement(nil), t.s.movements...)
	if err := fn(stubProductRepo{t.s}, stubMovementRepo{t.s}); err != nil {
		t.s.movements = snapshot
		return err
	}
	return nil
}

// fakeCache cache em memória sem expiração, contando invalidações.
type fakeCache struct {
	mu           sync.Mutex
	data         map[string][]byte
	gets, hits   int
	invalidation int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidation++
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

type recordingObserver struct {
	recorded, deleted []*entity.Movement
}

func (o *recordingObserver) MovementRecorded(m *entity.Movement) { o.recorded = append(o.recorded, m) }
func (o *recordingObserver) MovementDeleted(m *entity.Movement)  { o.deleted = append(o.deleted, m) }
