// Package app wires the concrete adapters into the query service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/doeshing/sysq/internal/application/query"
	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/infrastructure/backend"
	"github.com/doeshing/sysq/internal/infrastructure/config"
	"github.com/doeshing/sysq/internal/infrastructure/executor"
	"github.com/doeshing/sysq/internal/infrastructure/history"
	"github.com/doeshing/sysq/internal/infrastructure/intent"
	"github.com/doeshing/sysq/internal/infrastructure/interpret"
	"github.com/doeshing/sysq/internal/infrastructure/inventory"
	"github.com/doeshing/sysq/internal/infrastructure/planner"
	"github.com/doeshing/sysq/internal/infrastructure/safety"
	"github.com/doeshing/sysq/internal/infrastructure/telemetry"
	"github.com/doeshing/sysq/internal/infrastructure/trace"
	"github.com/doeshing/sysq/internal/pkg/logger"
	"github.com/doeshing/sysq/internal/ports"
)

// Container holds the wired application graph for one process.
type Container struct {
	Config   domain.Config
	Loader   *config.FileLoader
	Service  domain.QueryService
	Store    ports.TraceStore
	Detector ports.ToolDetector
	Logger   ports.Logger
}

// New loads configuration and builds the full pipeline. The trace store and
// reasoning backend are optional; everything else is mandatory wiring.
func New(ctx context.Context) (*Container, error) {
	loader, err := config.NewFileLoader()
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level)

	validator, err := safety.NewValidator(cfg.Safety.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("build safety validator: %w", err)
	}
	if !cfg.Safety.Enabled {
		// The validator cannot be turned off; the flag only exists so a
		// config diff makes the attempt visible.
		log.Warn("safety.enabled=false ignored, validation is always on", nil)
	}

	detector := inventory.NewDetector()
	timeout := time.Duration(cfg.Preferences.CommandTimeoutSeconds) * time.Second
	exec := executor.New(validator, executor.LocalRunner{}, log, timeout, cfg.Preferences.ParallelProbes)

	var store ports.TraceStore
	if cfg.History.Enabled {
		dbPath, err := config.HistoryDBPath()
		if err != nil {
			return nil, err
		}
		store, err = history.NewSQLiteStore(dbPath)
		if err != nil {
			log.Warn("history disabled, store unavailable", map[string]interface{}{"error": err.Error()})
			store = nil
		}
	}

	deps := query.Deps{
		Config:      loader,
		Detector:    detector,
		Classifier:  intent.NewClassifier(),
		Planner:     planner.New(validator, log),
		Executor:    exec,
		Interpreter: interpret.New(log),
		Assembler:   trace.NewAssembler(),
		Telemetry:   telemetry.NewCollector(log),
		Store:       store,
		Logger:      log,
	}
	if b := backend.New(cfg.Backend); b != nil {
		deps.Backend = b
	}

	return &Container{
		Config:   cfg,
		Loader:   loader,
		Service:  query.NewService(deps),
		Store:    store,
		Detector: detector,
		Logger:   log,
	}, nil
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
