// Package bootstrap monta o grafo de dependências (pool, cache, repositórios e casos de uso)
// usado pela API e pelo estoquectl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amancio-obras/estoque-obras/internal/application/analytics"
	"github.com/amancio-obras/estoque-obras/internal/application/auth"
	"github.com/amancio-obras/estoque-obras/internal/application/inventory"
	"github.com/amancio-obras/estoque-obras/internal/application/ports"
	"github.com/amancio-obras/estoque-obras/internal/application/report"
	"github.com/amancio-obras/estoque-obras/internal/application/usecase"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/cache"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/metrics"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/pdf"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/postgres"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/spreadsheet"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/storage"
	"github.com/amancio-obras/estoque-obras/internal/infrastructure/xmlexport"
	"github.com/amancio-obras/estoque-obras/pkg/config"
	"github.com/amancio-obras/estoque-obras/pkg/logger"
)

// Container dependências prontas para uso.
type Container struct {
	Pool    *pgxpool.Pool
	Cache   ports.Cache
	Metrics *metrics.Metrics

	Auth      *auth.AuthUseCase
	Products  *usecase.ProductUseCase
	Register  *inventory.RegisterMovementUseCase
	Ledger    *inventory.LedgerUseCase
	Report    *report.ReportUseCase
	Dashboard *analytics.DashboardUseCase

	closers []func()
}

// New aplica as migrações, abre o pool e o cache e constrói os casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Metrics: metrics.New()}

	version, err := postgres.Migrate(cfg.DB.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info().Uint("versao", version).Msg("schema atualizado")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexão a PostgreSQL: %w", err)
	}
	c.Pool = pool
	c.closers = append(c.closers, pool.Close)

	rawCache, driver, err := c.openCache(ctx, cfg.Cache, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Cache = c.Metrics.InstrumentCache(rawCache, driver)

	var objectStorage report.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3Storage(ctx, storage.Options{
			Bucket:   cfg.Storage.Bucket,
			Region:   cfg.Storage.Region,
			Endpoint: cfg.Storage.Endpoint,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		objectStorage = s3
	}

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerCfg := inventory.LedgerConfig{
		Cache:        c.Cache,
		TTL:          cfg.Cache.TTL(),
		LowThreshold: cfg.Stock.LowThreshold,
		Logger:       log.Named("saldo"),
	}
	c.Ledger = inventory.NewLedgerUseCase(productRepo, movementRepo, ledgerCfg)
	c.Register = inventory.NewRegisterMovementUseCase(txRunner, inventory.RegisterMovementConfig{
		Cache:          c.Cache,
		Observer:       c.Metrics,
		Logger:         log.Named("movimentacoes"),
		EnforceBalance: cfg.Stock.EnforceBalance,
	})
	c.Products = usecase.NewProductUseCase(productRepo, spreadsheet.NewReader(), c.Cache, log.Named("produtos"))
	c.Dashboard = analytics.NewDashboardUseCase(productRepo, movementRepo, c.Ledger, ledgerCfg)
	c.Report = report.NewReportUseCase(c.Ledger, report.Config{
		PDF:           pdf.NewMarotoPDFGenerator(),
		XML:           xmlexport.NewEncoder(),
		Storage:       objectStorage,
		Company:       cfg.App.Company,
		StoragePrefix: cfg.Storage.Prefix,
		Logger:        log.Named("relatorios"),
	})
	c.Auth = auth.NewAuthUseCase(
		auth.AdminCredentials{User: cfg.Admin.User, Password: cfg.Admin.Password, PasswordHash: cfg.Admin.PasswordHash},
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		c.Cache,
		log.Named("auth"),
	)
	return c, nil
}

func (c *Container) openCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (ports.Cache, string, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("cache de leitura em memória")
		return cache.NewMemoryCache(), "memory", nil
	}
	rdb, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, "", fmt.Errorf("conexão a Redis: %w", err)
	}
	rc := cache.NewRedisCache(rdb)
	c.closers = append(c.closers, func() { _ = rc.Close() })
	log.Info().Msg("cache de leitura no Redis")
	return rc, "redis", nil
}

// Close libera pool e cache, na ordem inversa de abertura.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
