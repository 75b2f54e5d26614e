package main

import (
	"context"
	"fmt"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/activity"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/cache"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/catalog"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/config"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/storage"
	"github.com/akshad21/Shop1t-Ecommerce-Application/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// loadRuntime reads the config and builds the process logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// openStorage builds the configured backend. The returned storage owns its
// connection and releases it on Close.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client, err := connectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("using redis storage", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.StorageTTL))
		return storage.NewRedisStorage(client, cfg.StorageTTL), nil

	case config.BackendMongo:
		db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName, storage.MongoOptions{
			ConnectTimeout:         cfg.Mongo.ConnectTimeout,
			ServerSelectionTimeout: cfg.Mongo.ServerSelectionTimeout,
			MaxPoolSize:            cfg.Mongo.MaxPoolSize,
			MinPoolSize:            cfg.Mongo.MinPoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		st := storage.NewMongoStorage(db)
		if err := st.CreateIndexes(ctx); err != nil {
			st.Close()
			return nil, err
		}
		log.Info("using mongo storage", zap.String("db", cfg.MongoDBName))
		return st, nil

	case config.BackendSQLite:
		st, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("using sqlite storage", zap.String("path", cfg.SQLitePath))
		return st, nil

	case config.BackendPostgres:
		st, err := storage.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres storage")
		return st, nil

	default:
		log.Info("using in-memory storage, state is lost on restart")
		return storage.NewMemoryStorage(), nil
	}
}

// openCatalog builds the catalog client, fronted by a Redis response cache
// when CATALOG_CACHE is set. The cleanup func releases the cache connection.
func openCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Catalog, func(), error) {
	client := catalog.NewDummyJSON(catalog.Options{
		BaseURL: cfg.CatalogBaseURL,
		Timeout: cfg.CatalogTimeout,
	}, log.Named("catalog"))

	if !cfg.CatalogCache {
		return client, func() {}, nil
	}

	redisClient, err := connectRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr))
	cached := catalog.NewCached(client, cache.NewRedisCache(redisClient, 0), cfg.CatalogTimeout, log.Named("catalog_cache"))
	return cached, func() { redisClient.Close() }, nil
}

func openPublisher(cfg *config.Config, log *zap.Logger) activity.Publisher {
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		return activity.Noop{}
	}
	log.Info("publishing activity", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	return activity.NewKafkaPublisher(cfg.KafkaTopic, brokers...)
}
