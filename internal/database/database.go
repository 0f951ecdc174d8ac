// Package database opens the storage backend selected by DATABASE_DRIVER.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository/memory"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository/mongodb"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository/postgres"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open connects, verifies the connection and prepares indexes or schema.
// The returned repository owns the connection and must be closed by the caller.
func Open(cfg *config.Config) (repository.Repository, error) {
	if cfg.Database.Driver != DriverMemory && cfg.Database.URI == "" {
		return nil, fmt.Errorf("DATABASE_URI is required for the %s driver", cfg.Database.Driver)
	}

	switch cfg.Database.Driver {
	case DriverMongoDB:
		repo, err := OpenMongo(cfg)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverPostgres:
		repo, err := OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverMemory:
		slog.Warn("using the in-memory repository, data is lost on exit")
		return memory.NewRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func OpenMongo(cfg *config.Config) (*mongodb.Repository, error) {
	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetMaxPoolSize(uint64(cfg.Database.MaxOpenConns)).
		SetMaxConnIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second).
		SetConnectTimeout(time.Duration(cfg.Database.ConnectTimeout) * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// Connect does not dial, ping to fail fast on a bad URI
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	repo := mongodb.NewRepository(cfg, client)
	if err := repo.EnsureIndexes(); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func OpenPostgres(cfg *config.Config) (*postgres.Repository, error) {
	dbpool, err := sql.Open("pgx", cfg.Database.URI)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open only builds the pool
	if err := dbpool.PingContext(ctx); err != nil {
		_ = dbpool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo := postgres.NewRepository(cfg, dbpool)
	if err := repo.EnsureSchema(); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}
