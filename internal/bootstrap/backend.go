package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-store/internal/api/handler"
	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/ports"
	"github.com/99minutos/identity-store/internal/infrastructure/cache"
	"github.com/99minutos/identity-store/internal/infrastructure/config"
	"github.com/99minutos/identity-store/internal/infrastructure/db/memory"
	mongorepo "github.com/99minutos/identity-store/internal/infrastructure/db/mongo"
	"github.com/99minutos/identity-store/internal/infrastructure/metrics"
)

// Backend is the storage side of the service: decorated repositories plus
// the dependencies the readiness probe pings.
type Backend[AP, RP any] struct {
	Accounts ports.Repository[AP]
	Roles    ports.Repository[RP]
	Checks   map[string]handler.Pinger

	closers []func(context.Context) error
}

// Close releases every connection opened by OpenBackend, newest first.
func (b *Backend[AP, RP]) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i](ctx))
	}
	b.closers = nil
	return errors.Join(errs...)
}

// OpenBackend builds the repository chain selected by cfg:
// storage driver, then metrics, then the optional cache.
func OpenBackend[A any, AP domain.AccountType[A], R any, RP domain.RoleType[R]](
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Backend[AP, RP], error) {
	b := &Backend[AP, RP]{Checks: make(map[string]handler.Pinger)}

	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		b.Checks["mongodb"] = mongorepo.Pinger{Client: client}
		b.Accounts = mongorepo.NewRepository[A, AP](db.Collection(cfg.Mongo.AccountsCollection), cfg.Mongo.Timeout)
		b.Roles = mongorepo.NewRepository[R, RP](db.Collection(cfg.Mongo.RolesCollection), cfg.Mongo.Timeout)
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store connected")
	case config.StoreMemory:
		b.Accounts = memory.NewRepository[A, AP]()
		b.Roles = memory.NewRepository[R, RP]()
		log.Warn().Msg("using in-memory store, data is lost on restart")
	default:
		return nil, fmt.Errorf("bootstrap: unknown store driver %q", cfg.StoreDriver)
	}

	b.Accounts = metrics.NewRepository(b.Accounts, mongorepo.CollectionAccounts)
	b.Roles = metrics.NewRepository(b.Roles, mongorepo.CollectionRoles)

	var c cache.Cache
	switch cfg.Cache.Driver {
	case config.CacheNone, "":
	case config.CacheMemory:
		c = cache.NewMemory(cfg.Cache.TTL)
	case config.CacheRedis:
		r, err := cache.ConnectRedis(ctx, cache.RedisConfig{
			Addr:       cfg.Redis.Addr,
			DB:         cfg.Redis.DB,
			Prefix:     "identity",
			DefaultTTL: cfg.Cache.TTL,
		})
		if err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return r.Close() })
		b.Checks["redis"] = r
		c = r
	default:
		_ = b.Close(ctx)
		return nil, fmt.Errorf("bootstrap: unknown cache driver %q", cfg.Cache.Driver)
	}
	if c != nil {
		b.Accounts = cache.NewRepository[A, AP](b.Accounts, c, mongorepo.CollectionAccounts, cfg.Cache.TTL, log)
		b.Roles = cache.NewRepository[R, RP](b.Roles, c, mongorepo.CollectionRoles, cfg.Cache.TTL, log)
		log.Info().Str("driver", cfg.Cache.Driver).Dur("ttl", cfg.Cache.TTL).Msg("aggregate cache enabled")
	}

	return b, nil
}

// EnsureIndexes connects to MongoDB and creates the lookup indexes of both
// collections.
func EnsureIndexes(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	if err := mongorepo.EnsureAccountIndexes(ctx, db.Collection(cfg.Mongo.AccountsCollection)); err != nil {
		return err
	}
	if err := mongorepo.EnsureRoleIndexes(ctx, db.Collection(cfg.Mongo.RolesCollection)); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
	return nil
}
