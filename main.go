package main

import (
	"context"
	"errors"
	"os"

	"github.com/username/syndforge/src/catalog"
	"github.com/username/syndforge/src/config"
	"github.com/username/syndforge/src/engine"
	"github.com/username/syndforge/src/export"
	"github.com/username/syndforge/src/logger"
	"github.com/username/syndforge/src/models"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Syndforge dataset generator starting...")

	cat, err := catalog.Load(config.Cfg.CatalogPath)
	if err != nil {
		logger.L.Error("Failed to load reference catalog", "path", config.Cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	// Run configuration decides which syndicates and years to generate;
	// the catalog supplies everything else.
	cat.Syndicates = cat.Syndicates[:0]
	for _, s := range config.Cfg.Syndicates {
		cat.Syndicates = append(cat.Syndicates, models.Syndicate(s))
	}
	cat.Years = cat.Years[:0]
	for y := config.Cfg.YearStart; y <= config.Cfg.YearEnd; y++ {
		cat.Years = append(cat.Years, y)
	}

	eng, err := engine.New(cat, config.Cfg.Seed, config.Cfg.MaxParallel)
	if err != nil {
		logger.L.Error("Failed to initialize engine", "error", err)
		os.Exit(1)
	}

	result, err := eng.Run(context.Background())
	if err != nil {
		if errors.Is(err, models.ErrValidationFailed) && result != nil {
			for _, f := range result.Failures {
				logger.L.Error("Validation failure",
					"rule", f.Rule, "key", f.Key, "got", f.Got, "want", f.Want, "detail", f.Detail)
			}
		}
		logger.L.Error("Run aborted, nothing exported", "error", err)
		os.Exit(1)
	}

	if err := export.WriteCSV(config.Cfg.OutputDir, result.Dataset); err != nil {
		logger.L.Error("CSV export failed", "error", err)
		os.Exit(1)
	}
	if err := export.WriteSQLite(config.Cfg.SQLiteExportPath, result.Dataset); err != nil {
		logger.L.Error("SQLite export failed", "error", err)
		os.Exit(1)
	}

	logger.L.Info("Run complete",
		"runID", result.RunID,
		"seed", result.Seed,
		"outputDir", config.Cfg.OutputDir,
		"sqlite", config.Cfg.SQLiteExportPath)
}
