package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/database"
	"github.com/shiftboard/shift-scheduler/backend/internal/export"
	"github.com/shopspring/decimal"
)

func main() {
	var format string
	var out string

	flag.StringVar(&format, "format", "json", "output format (json or xlsx)")
	flag.StringVar(&out, "out", "data", "output directory")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	decimal.MarshalJSONWithoutQuotes = true

	repo, err := database.Open(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	ds, err := export.Load(repo, nil)
	if err != nil {
		logger.Error("failed to load data", "error", err)
		return
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		logger.Error("failed to create output directory", "dir", out, "error", err)
		return
	}

	switch format {
	case "json":
		if err := export.WriteJSON(out, ds); err != nil {
			logger.Error("failed to write json export", "error", err)
			return
		}
		logger.Info("wrote json export", "dir", out, "employees", len(ds.Employees))
	case "xlsx":
		path := filepath.Join(out, fmt.Sprintf("schedule-%s.xlsx", time.Now().Format("20060102")))
		f, err := os.Create(path)
		if err != nil {
			logger.Error("failed to create workbook file", "path", path, "error", err)
			return
		}
		defer f.Close()

		if err := export.WriteWorkbook(f, ds); err != nil {
			logger.Error("failed to write workbook", "error", err)
			return
		}
		logger.Info("wrote workbook", "path", path, "employees", len(ds.Employees))
	default:
		logger.Error("unknown format", "format", format)
	}
}
