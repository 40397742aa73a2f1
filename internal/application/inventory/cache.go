package inventory

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// Chaves do cache de leitura. Toda escrita remove ReadCachePrefix inteiro.
const (
	ReadCachePrefix = "estoque:leitura:"
	keyBalances     = ReadCachePrefix + "saldos"
	keyDashboard    = ReadCachePrefix + "painel"
	keyMovements    = ReadCachePrefix + "historico:"
)

// DashboardCacheKey chave do painel, compartilhada com o pacote analytics.
const DashboardCacheKey = keyDashboard

// readGeneration avança a cada invalidação. Uma leitura iniciada antes da escrita
// não grava seu resultado.
var readGeneration atomic.Uint64

func movementsKey(parts ...any) string {
	h := sha1.Sum([]byte(fmt.Sprint(parts...)))
	return keyMovements + hex.EncodeToString(h[:8])
}

// ReadThrough devolve o valor em cache para key ou chama load, gravando o resultado com ttl.
// Falhas do cache são registradas e tratadas como miss. Se uma invalidação ocorrer enquanto
// load roda, o resultado é devolvido mas não fica em cache.
func ReadThrough[T any](ctx context.Context, cache ports.Cache, log *logger.Logger, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var cached T
	if cache != nil && ttl > 0 {
		hit, err := cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache indisponível, lendo do banco")
		}
		if hit {
			return cached, nil
		}
	}
	gen := readGeneration.Load()
	v, err := load()
	if err != nil {
		return v, err
	}
	if cache == nil || ttl <= 0 || readGeneration.Load() != gen {
		return v, nil
	}
	if err := cache.Set(ctx, key, v, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("falha ao gravar cache")
		return v, nil
	}
	if readGeneration.Load() != gen {
		// invalidado entre a verificação e o Set
		if err := cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("falha ao remover leitura obsoleta")
		}
	}
	return v, nil
}

// InvalidateReadCache descarta todas as leituras em cache.
func InvalidateReadCache(ctx context.Context, cache ports.Cache, log *logger.Logger) {
	readGeneration.Add(1)
	if cache == nil {
		return
	}
	if err := cache.DeletePrefix(ctx, ReadCachePrefix); err != nil {
		log.Warn().Err(err).Msg("falha ao invalidar cache de leitura")
	}
}
