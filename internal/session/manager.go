package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/pgxstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/userdeck/userdeck/internal/config"
)

const cookieName = "userdeck_session"

// Backend is an opened session store plus whatever must be released on
// shutdown.
type Backend struct {
	Store scs.Store
	Close func()
}

// OpenBackend connects the store selected by cfg.SessionStore.
func OpenBackend(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory, "":
		store := memstore.New()
		return Backend{Store: store, Close: store.StopCleanup}, nil
	case config.SessionStorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return Backend{}, fmt.Errorf("open session database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return Backend{}, fmt.Errorf("ping session database: %w", err)
		}
		store := pgxstore.New(pool)
		return Backend{Store: store, Close: func() {
			store.StopCleanup()
			pool.Close()
		}}, nil
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return Backend{}, fmt.Errorf("ping session redis: %w", err)
		}
		return Backend{Store: NewRedisStore(client), Close: func() { _ = client.Close() }}, nil
	default:
		return Backend{}, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

// NewManager configures the session cookie and lifetimes from cfg.
func NewManager(cfg config.Config, store scs.Store) *scs.SessionManager {
	m := scs.New()
	if store != nil {
		m.Store = store
	}
	m.Lifetime = cfg.SessionLifetime
	m.IdleTimeout = cfg.SessionIdleTimeout
	m.Cookie.Name = cookieName
	m.Cookie.HttpOnly = true
	m.Cookie.Path = "/"
	m.Cookie.SameSite = http.SameSiteLaxMode
	m.Cookie.Secure = cfg.AuthCookieSecure
	return m
}
