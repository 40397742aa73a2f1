package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amancio-obras/estoque-obras/internal/application/dto"
	appinv "github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/domain"
	"github.com/amancio-obras/estoque-obras/internal/domain/entity"
	"github.com/amancio-obras/estoque-obras/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newRegister(s *store, cache *fakeCache, obs *recordingObserver, enforce bool) *appinv.RegisterMovementUseCase {
	cfg := appinv.RegisterMovementConfig{EnforceBalance: enforce}
	if cache != nil {
		cfg.Cache = cache
	}
	if obs != nil {
		cfg.Observer = obs
	}
	return appinv.NewRegisterMovementUseCase(stubTxRunner{s}, cfg)
}

func entrada(code, qty, cost string) appinv.MovementInputDTO {
	c := dec(cost)
	return appinv.MovementInputDTO{Type: entity.MovementEntrada, Code: code, Quantity: dec(qty), UnitCost: &c, Site: "Obra Centro"}
}

func TestRecordMovement_CopiaDescricaoEDataPadrao(t *testing.T) {
	s := newStore("CIM-01")
	uc := newRegister(s, nil, nil, true)

	mov, err := uc.RecordMovement(context.Background(), entrada(" CIM-01 ", "100", "10"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), mov.ID)
	assert.Equal(t, "CIM-01", mov.Code)
	assert.Equal(t, "Produto CIM-01", mov.Description)
	assert.False(t, mov.Date.IsZero())
	assert.Equal(t, time.UTC, mov.Date.Location())
	assert.Zero(t, mov.Date.Hour())
}

func TestRecordMovement_EntradaInvalida(t *testing.T) {
	s := newStore("CIM-01")
	uc := newRegister(s, nil, nil, true)
	neg := dec("-1")

	cases := map[string]appinv.MovementInputDTO{
		"tipo desconhecido":   {Type: "Transferência", Code: "CIM-01", Quantity: dec("1")},
		"codigo vazio":        {Type: entity.MovementEntrada, Code: "  ", Quantity: dec("1")},
		"quantidade zero":     {Type: entity.MovementEntrada, Code: "CIM-01", Quantity: decimal.Zero},
		"quantidade negativa": {Type: entity.MovementSaida, Code: "CIM-01", Quantity: dec("-3")},
		"custo negativo":      {Type: entity.MovementEntrada, Code: "CIM-01", Quantity: dec("1"), UnitCost: &neg},
	}
	// quantidade NUMERIC(14,3), custo NUMERIC(14,4)
	for _, q := range []string{"0.0004", "12.3456", "100000000000", "123456789012.5"} {
		cases["quantidade "+q] = appinv.MovementInputDTO{Type: entity.MovementEntrada, Code: "CIM-01", Quantity: dec(q)}
	}
	for _, c := range []string{"0.00001", "10.12345", "10000000000"} {
		cost := dec(c)
		cases["custo "+c] = appinv.MovementInputDTO{Type: entity.MovementEntrada, Code: "CIM-01", Quantity: dec("1"), UnitCost: &cost}
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RecordMovement(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, s.movements)
}

func TestRecordMovement_EscalaDentroDaColuna(t *testing.T) {
	s := newStore("CIM-01")
	uc := newRegister(s, nil, nil, true)

	for _, q := range []string{"12.345", "12.3450", "99999999999.999"} {
		out, err := uc.RecordMovement(context.Background(), entrada("CIM-01", q, "9999999999.9999"))
		require.NoError(t, err, q)
		assert.True(t, out.Quantity.Equal(dec(q)))
	}
	assert.Len(t, s.movements, 3)
}

func TestRecordMovement_CodigoNaoCadastrado(t *testing.T) {
	s := newStore("CIM-01")
	uc := newRegister(s, nil, nil, true)

	_, err := uc.RecordMovement(context.Background(), entrada("NAO-EXISTE", "1", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.movements)
}

func TestRecordMovement_SaldoInsuficiente(t *testing.T) {
	s := newStore("AREIA")
	uc := newRegister(s, nil, nil, true)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, entrada("AREIA", "10", "50"))
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "AREIA", Quantity: dec("10.5")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementAjusteMenos, Code: "AREIA", Quantity: dec("11")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "AREIA", Quantity: dec("10")})
	require.NoError(t, err, "retirar exatamente o saldo é permitido")

	assert.True(t, inventory.BalanceOf("AREIA", s.movements).IsZero())
	assert.Equal(t, 3, s.locks, "saídas bloqueiam a linha do produto")
}

func TestRecordMovement_SemVerificacaoDeSaldo(t *testing.T) {
	s := newStore("CAL")
	uc := newRegister(s, nil, nil, false)

	_, err := uc.RecordMovement(context.Background(), appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "CAL", Quantity: dec("4")})
	require.NoError(t, err)
	assert.True(t, inventory.BalanceOf("CAL", s.movements).Equal(dec("-4")))
	assert.Zero(t, s.locks)
}

func TestRecordMovement_SaidasConcorrentesNaoDeixamSaldoNegativo(t *testing.T) {
	s := newStore("BRITA")
	uc := newRegister(s, nil, nil, true)
	ctx := context.Background()
	_, err := uc.RecordMovement(ctx, entrada("BRITA", "10", "1"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, refused := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "BRITA", Quantity: dec("3")})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				refused++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, refused)
	assert.True(t, inventory.BalanceOf("BRITA", s.movements).Equal(dec("1")))
}

func TestRecordMovement_InvalidaCacheENotificaObservador(t *testing.T) {
	s := newStore("TIJ")
	cache := newFakeCache()
	obs := &recordingObserver{}
	uc := newRegister(s, cache, obs, true)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, appinv.ReadCachePrefix+"saldos", "antigo", time.Minute))
	require.NoError(t, cache.Set(ctx, "estoque:sessao:revogada:abc", true, time.Minute))

	mov, err := uc.RecordMovement(ctx, entrada("TIJ", "5", "2"))
	require.NoError(t, err)

	assert.Equal(t, 1, cache.invalidation)
	assert.NotContains(t, cache.data, appinv.ReadCachePrefix+"saldos")
	assert.Contains(t, cache.data, "estoque:sessao:revogada:abc", "só o cache de leitura é descartado")
	require.Len(t, obs.recorded, 1)
	assert.Equal(t, mov.ID, obs.recorded[0].ID)
}

func TestRecordMovement_ErroDoBancoPropaga(t *testing.T) {
	s := newStore("TIJ")
	s.failWith = domain.ErrUnavailable
	uc := newRegister(s, newFakeCache(), nil, true)

	_, err := uc.RecordMovement(context.Background(), entrada("TIJ", "1", "1"))
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestDeleteMovement_RevertSaldo(t *testing.T) {
	s := newStore("CIM-01")
	cache := newFakeCache()
	obs := &recordingObserver{}
	uc := newRegister(s, cache, obs, true)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, entrada("CIM-01", "100", "10"))
	require.NoError(t, err)
	before := inventory.BalanceOf("CIM-01", s.movements)
	out, err := uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "CIM-01", Quantity: dec("30")})
	require.NoError(t, err)

	deleted, err := uc.DeleteMovement(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, deleted.ID)
	assert.True(t, inventory.BalanceOf("CIM-01", s.movements).Equal(before))
	assert.Equal(t, 3, cache.invalidation)
	assert.Len(t, obs.deleted, 1)
}

func TestDeleteMovement_IdInexistente(t *testing.T) {
	uc := newRegister(newStore(), nil, nil, true)

	_, err := uc.DeleteMovement(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.DeleteMovement(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteMovement_EntradaQueDeixariaSaldoNegativo(t *testing.T) {
	s := newStore("AREIA")
	uc := newRegister(s, nil, nil, true)
	ctx := context.Background()

	in, err := uc.RecordMovement(ctx, entrada("AREIA", "10", "2"))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "AREIA", Quantity: dec("4")})
	require.NoError(t, err)

	_, err = uc.DeleteMovement(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, s.movements, 2)
	assert.True(t, inventory.BalanceOf("AREIA", s.movements).Equal(dec("6")))
	assert.Positive(t, s.locks)
}

func TestDeleteMovement_SemVerificacaoDeSaldoPermiteNegativo(t *testing.T) {
	s := newStore("AREIA")
	uc := newRegister(s, nil, nil, false)
	ctx := context.Background()

	in, err := uc.RecordMovement(ctx, entrada("AREIA", "10", "2"))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "AREIA", Quantity: dec("4")})
	require.NoError(t, err)

	_, err = uc.DeleteMovement(ctx, in.ID)
	require.NoError(t, err)
	assert.True(t, inventory.BalanceOf("AREIA", s.movements).Equal(dec("-4")))
}

func TestDeleteMovement_ConcorrenteComSaidaNaoDeixaSaldoNegativo(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := newStore("BRITA")
		uc := newRegister(s, nil, nil, true)
		ctx := context.Background()
		in, err := uc.RecordMovement(ctx, entrada("BRITA", "10", "1"))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var saidaErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, saidaErr = uc.RecordMovement(ctx, appinv.MovementInputDTO{Type: entity.MovementSaida, Code: "BRITA", Quantity: dec("10")})
		}()
		go func() {
			defer wg.Done()
			_, deleteErr = uc.DeleteMovement(ctx, in.ID)
		}()
		wg.Wait()

		if saidaErr == nil {
			assert.ErrorIs(t, deleteErr, domain.ErrInsufficientStock)
		} else {
			assert.ErrorIs(t, saidaErr, domain.ErrInsufficientStock)
			assert.NoError(t, deleteErr)
		}
		assert.True(t, inventory.BalanceOf("BRITA", s.movements).Equal(decimal.Zero))
	}
}

func TestRegisterMovementFromRequest(t *testing.T) {
	s := newStore("ACO")
	uc := newRegister(s, nil, nil, true)
	ctx := context.Background()
	cost := dec("8.5")

	resp, err := uc.RegisterMovementFromRequest(ctx, dto.RegisterMovementRequest{
		Type: entity.MovementEntrada, Date: "2026-03-15", Site: "Obra Norte", Code: "ACO",
		Quantity: dec("12"), UnitCost: &cost, OC: "OC-77",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", resp.Date)
	assert.Equal(t, "OC-77", resp.OC)
	assert.Equal(t, "Produto ACO", resp.Description)

	_, err = uc.RegisterMovementFromRequest(ctx, dto.RegisterMovementRequest{
		Type: entity.MovementEntrada, Date: "15/03/2026", Code: "ACO", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
