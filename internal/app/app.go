package app

import (
	"net/http"

	"gorm.io/gorm"
	"mon-panier-local/internal/cache"
	"mon-panier-local/internal/config"
	"mon-panier-local/internal/db"
	producerdomain "mon-panier-local/internal/domain/producer"
	productdomain "mon-panier-local/internal/domain/product"
	userdomain "mon-panier-local/internal/domain/user"
	producerrepo "mon-panier-local/internal/repository/postgres/producer"
	productrepo "mon-panier-local/internal/repository/postgres/product"
	userrepo "mon-panier-local/internal/repository/postgres/user"
	"mon-panier-local/internal/transport/httpserver"
	"mon-panier-local/internal/transport/httpserver/handler"
	"mon-panier-local/migrations"
	"mon-panier-local/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	cacheStore cache.Store
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn, migrations.FS); err != nil {
		return nil, err
	}

	// Redis is optional. Without it the API stays fully functional,
	// every cached read just degrades to a miss.
	var store cache.Store = cache.Noop{}
	if cfg.Redis.URL != "" {
		redisStore, err := cache.NewRedis(cfg.Redis.URL, cfg.Redis.Timeout)
		if err != nil {
			log.Warn("app: redis unavailable, caching disabled", "err", err)
		} else {
			store = redisStore
			log.Info("app: redis cache enabled")
		}
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn), cfg.JWT.Secret, cfg.JWT.TokenTTL)
	producers := producerdomain.NewService(producerrepo.NewPostgres(dbConn), cfg.Nearby.MaxRadiusKm)
	products := productdomain.NewService(productrepo.NewPostgres(dbConn))

	handlers := handler.New(users, producers, products, store, cfg.Cache, cfg.Nearby, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		cacheStore: store,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if closer, ok := a.cacheStore.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
