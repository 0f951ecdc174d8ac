package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/database"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/seed"
)

const (
	opDemo              = "demo"
	opRandom            = "random"
	opBackfillPasswords = "backfill-passwords"
	opBackfillScope     = "backfill-scope"
)

func main() {
	var op string
	var n int
	var managerEmail string

	flag.StringVar(&op, "op", "", "operation to run (demo, random, backfill-passwords, backfill-scope)")
	flag.IntVar(&n, "n", 5, "number of random employees to insert")
	flag.StringVar(&managerEmail, "manager", "", "email of the manager random employees report to")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// backfill-scope rewrites raw documents, so it needs the concrete MongoDB repository
	if op == opBackfillScope {
		if cfg.Database.Driver != database.DriverMongoDB {
			logger.Error("backfill-scope only applies to the mongodb driver", "driver", cfg.Database.Driver)
			os.Exit(1)
		}
		repo, err := database.OpenMongo(cfg)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer repo.Close()

		updated, err := repo.BackfillManagerScope()
		if err != nil {
			logger.Error("failed to backfill manager scope", "error", err)
			return
		}
		logger.Info("backfilled manager scope", slog.Int("count", updated))
		return
	}

	repo, err := database.Open(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	switch op {
	case "":
		logger.Error("no operation given, use -op")
	case opDemo:
		if err := seed.Demo(repo, cfg.Seed.Password); err != nil {
			logger.Error("failed to insert demo data", "error", err)
			return
		}
		logger.Info("demo accounts share the seed password", "password_env", "SEED_PASSWORD")
	case opRandom:
		if n <= 0 {
			logger.Error("-n must be positive")
			return
		}
		managerID, err := resolveManager(repo, managerEmail)
		if err != nil {
			logger.Error("failed to resolve manager", "email", managerEmail, "error", err)
			return
		}
		inserted := seed.Random(repo, cfg.Seed.Password, n, managerID)
		logger.Info("inserted random employees", slog.Int("count", inserted))
	case opBackfillPasswords:
		issued, err := seed.BackfillPasswords(repo)
		for _, c := range issued {
			// printed rather than logged so credentials stay out of log pipelines
			fmt.Printf("- %s <%s>: %s\n", c.Name, c.Email, c.Password)
		}
		if err != nil {
			logger.Error("failed to backfill passwords", "error", err)
			return
		}
		if len(issued) == 0 {
			logger.Info("every employee already has a password, nothing to do")
			return
		}
		logger.Info("issued temporary passwords, share them securely and rotate after first login", slog.Int("count", len(issued)))
	default:
		logger.Error("unknown operation", "op", op)
	}
}

func resolveManager(repo repository.Repository, email string) (*string, error) {
	if email == "" {
		return nil, nil
	}
	manager, err := repo.GetEmployeeByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no employee with email %s", email)
		}
		return nil, err
	}
	return &manager.ID, nil
}
