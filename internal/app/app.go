package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"yatube/config"
	"yatube/internal/adapter/in/rest"
	"yatube/internal/adapter/out/cache"
	cacheinmem "yatube/internal/adapter/out/cache/inmemory"
	cacheredis "yatube/internal/adapter/out/cache/redis"
	businmem "yatube/internal/adapter/out/pubsub/inmemory"
	memstore "yatube/internal/adapter/out/storage/inmemory"
	pgstore "yatube/internal/adapter/out/storage/postgres"
	"yatube/internal/auth"
	"yatube/internal/metrics"
	"yatube/internal/service"
	"yatube/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg   config.Config
	srv   *http.Server
	pool  *pgxpool.Pool
	redis *redis.Client
}

type storages struct {
	posts    service.PostStorage
	comments service.CommentStorage
	groups   service.GroupStorage
	users    service.UserStorage
	follows  service.FollowStorage
	tx       service.TxManager
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)
	a := &App{cfg: cfg}

	st, err := a.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	pageCache, err := a.initCache(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	m := metrics.New()
	jwt := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	postSvc := service.NewPostService(st.posts, st.groups, st.tx)
	commentSvc := service.NewCommentService(st.comments, st.posts, businmem.New(businmem.DefaultBuffer))
	followSvc := service.NewFollowService(st.follows, service.WithFollowHook(m.FollowCreated))
	feedSvc := service.NewFeedService(st.posts, st.groups, st.users, followSvc, cfg.Feed.PostsPerPage)

	h := rest.NewHandler(
		postSvc,
		commentSvc,
		feedSvc,
		followSvc,
		service.NewUserService(st.users, jwt),
		service.NewGroupService(st.groups),
		jwt,
		rest.WithPageCache(pageCache, m),
		rest.WithTokenTTL(cfg.Auth.TokenTTL),
		rest.WithWSKeepAlive(time.Duration(cfg.WS.KeepAliveSeconds)*time.Second),
	)

	router := rest.NewRouter(h, mux.MiddlewareFunc(m.Middleware))

	root := http.NewServeMux()
	root.Handle("/metrics", m.Handler())
	root.Handle("/", router)

	addr := ":" + cfg.HTTP.Port
	a.srv = &http.Server{
		Addr:              addr,
		Handler:           root,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType, "cache", cfg.CacheType)
	return a, nil
}

func (a *App) initStorage(ctx context.Context) (storages, error) {
	switch a.cfg.StorageType {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, a.cfg.Postgres.GetDSN())
		if err != nil {
			return storages{}, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return storages{}, fmt.Errorf("ping postgres: %w", err)
		}
		a.pool = pool

		getter := trmpgx.DefaultCtxGetter
		return storages{
			posts:    pgstore.NewPostStorage(pool, getter),
			comments: pgstore.NewCommentStorage(pool, getter),
			groups:   pgstore.NewGroupStorage(pool, getter),
			users:    pgstore.NewUserStorage(pool, getter),
			follows:  pgstore.NewFollowStorage(pool, getter),
			tx:       manager.Must(trmpgx.NewDefaultFactory(pool)),
		}, nil

	case config.StorageMemory:
		users := memstore.NewUserStorage()
		return storages{
			posts:    memstore.NewPostStorage(users),
			comments: memstore.NewCommentStorage(users),
			groups:   memstore.NewGroupStorage(),
			users:    users,
			follows:  memstore.NewFollowStorage(),
			tx:       memstore.TxManager{},
		}, nil

	default:
		return storages{}, fmt.Errorf("unknown storage type %q", a.cfg.StorageType)
	}
}

func (a *App) initCache(ctx context.Context) (rest.PageCache, error) {
	ttl := a.cfg.Feed.HomeCacheTTL

	switch a.cfg.CacheType {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		a.redis = client
		return cacheredis.New(client, ttl), nil

	case config.CacheMemory:
		return cacheinmem.New(a.cfg.Feed.HomeCacheSize, ttl), nil

	case config.CacheNone:
		return cache.Nop{}, nil

	default:
		return nil, fmt.Errorf("unknown cache type %q", a.cfg.CacheType)
	}
}

// Migrate applies the postgres schema. It is a no-op for in-memory storage.
func Migrate(ctx context.Context, cfg config.Config) error {
	if cfg.StorageType != config.StoragePostgres {
		logger.FromContext(ctx).Info("nothing to migrate", "storage", cfg.StorageType)
		return nil
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.GetDSN())
	if err != nil {
		return fmt.Errorf("pgxpool: %w", err)
	}
	defer pool.Close()

	if err := pgstore.Migrate(ctx, pool); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("schema applied")
	return nil
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		a.close()
		return nil

	case err := <-errCh:
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
