package main

import (
	"context"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"travelFront/internal/config"
	"travelFront/internal/repositories"
)

// openStore connects the configured storage backend. The returned close
// function releases its connections.
func openStore(ctx context.Context, cfg config.Config, infoLog *log.Logger) (repositories.KVStore, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		infoLog.Printf("storage: in-memory")
		return repositories.NewMemoryStore(), func() {}, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		infoLog.Printf("storage: redis at %s", cfg.Storage.Redis.Addr)
		return repositories.NewRedisStore(rdb, cfg.Storage.Redis.Prefix), func() { rdb.Close() }, nil

	case repositories.DialectMySQL, repositories.DialectPostgres:
		db, err := openDB(cfg.Storage.Driver, cfg.Storage.URL)
		if err != nil {
			return nil, nil, err
		}
		store := repositories.NewSQLStore(db, cfg.Storage.Driver)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("kv schema: %w", err)
		}
		infoLog.Printf("storage: %s", cfg.Storage.Driver)
		return store, func() { db.Close() }, nil

	case "s3":
		s3cfg := cfg.Storage.S3
		client, err := repositories.NewS3Client(repositories.S3Config{
			Endpoint:  s3cfg.Endpoint,
			Region:    s3cfg.Region,
			Bucket:    s3cfg.Bucket,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			Prefix:    s3cfg.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		infoLog.Printf("storage: s3 bucket %s", s3cfg.Bucket)
		return repositories.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
