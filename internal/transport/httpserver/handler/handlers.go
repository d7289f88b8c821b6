package handler

import (
	"mon-panier-local/internal/cache"
	"mon-panier-local/internal/config"
	producerdomain "mon-panier-local/internal/domain/producer"
	productdomain "mon-panier-local/internal/domain/product"
	userdomain "mon-panier-local/internal/domain/user"
	"mon-panier-local/pkg/logger"
)

type Handlers struct {
	Users     *userdomain.Service
	Producers *producerdomain.Service
	Products  *productdomain.Service

	cache  *responseCache
	nearby config.NearbyConfig
	log    logger.Logger
}

func New(users *userdomain.Service, producers *producerdomain.Service, products *productdomain.Service, store cache.Store, cacheCfg config.CacheConfig, nearbyCfg config.NearbyConfig, log logger.Logger) *Handlers {
	return &Handlers{
		Users:     users,
		Producers: producers,
		Products:  products,
		cache:     newResponseCache(store, cacheCfg, log),
		nearby:    nearbyCfg,
		log:       log,
	}
}
