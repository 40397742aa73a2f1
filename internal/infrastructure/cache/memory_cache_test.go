package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Code string `json:"codigo"`
	Qty  int    `json:"saldo"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var got item
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", item{Code: "CIM-01", Qty: 65}, time.Minute))
	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, item{Code: "CIM-01", Qty: 65}, got)
}

func TestMemoryCache_Expira(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, 30*time.Second))
	now = now.Add(29 * time.Second)
	var v int
	hit, _ := c.Get(ctx, "k", &v)
	assert.True(t, hit)

	now = now.Add(time.Second)
	hit, _ = c.Get(ctx, "k", &v)
	assert.False(t, hit)
	assert.Equal(t, 0, c.Len(), "entrada expirada é descartada na leitura")
}

func TestMemoryCache_TTLZeroNaoGrava(t *testing.T) {
	c := NewMemoryCache()
	require.NoError(t, c.Set(context.Background(), "k", 1, 0))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	for _, k := range []string{"estoque:leitura:saldos", "estoque:leitura:painel", "estoque:sessao:revogada:x"} {
		require.NoError(t, c.Set(ctx, k, true, time.Minute))
	}

	require.NoError(t, c.DeletePrefix(ctx, "estoque:leitura:"))
	assert.Equal(t, 1, c.Len())

	var v bool
	hit, _ := c.Get(ctx, "estoque:sessao:revogada:x", &v)
	assert.True(t, hit)

	require.NoError(t, c.Delete(ctx, "estoque:sessao:revogada:x"))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_ValorCopiado(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	src := []item{{Code: "A", Qty: 1}}
	require.NoError(t, c.Set(ctx, "k", src, time.Minute))
	src[0].Qty = 99

	var got []item
	_, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Qty)
}

func TestMemoryCache_Concorrente(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set(ctx, "k", i, time.Minute)
			var v int
			_, _ = c.Get(ctx, "k", &v)
			_ = c.DeletePrefix(ctx, "x")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
