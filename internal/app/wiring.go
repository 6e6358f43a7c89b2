package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"portal-gateway/internal/access"
	"portal-gateway/internal/auth"
	"portal-gateway/internal/config"
	"portal-gateway/internal/obs"
	"portal-gateway/internal/pdfcache"
	"portal-gateway/internal/proxy"
	"portal-gateway/internal/storage/s3"
	"portal-gateway/internal/transport/echo"
	"portal-gateway/pkg/logger"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level)
	obs.Init()

	registry := access.MustNewRegistry(access.DefaultTable())
	authn := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	fetcher := proxy.NewFetcher(cfg.Proxy.Timeout)

	var pdfs pdfcache.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pdfs = pdfcache.NewRedisStore(client, cfg.Cache.TTL)
		log.WithField("addr", cfg.Redis.Addr).Info("using redis pdf handoff store")
	} else {
		pdfs = pdfcache.NewMemoryStore(cfg.Cache.TTL)
	}

	var storage *s3.Client
	if cfg.S3Enabled() {
		storage, err = s3.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
	}

	server := echo.NewServer(cfg, registry, authn, pdfs, fetcher, storage, log)

	return &Service{
		config: cfg,
		pdfs:   pdfs,
		server: server,
		log:    log,
	}, nil
}
