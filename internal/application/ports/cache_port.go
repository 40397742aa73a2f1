package ports

import (
	"context"
	"time"
)

// Cache define o porto de saída do cache de leitura (Redis ou memória).
// Get devolve false em miss; erros de backend devem ser tratados como miss pelo chamador.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix remove todas as chaves que começam com prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}
