package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/internal/config"
	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg        *config.Config
	Store      db.Store
	Catalog    db.Catalog
	Dispatcher notify.Dispatcher
	Logger     *zap.Logger
	Ctx        context.Context
	Actor      model.Actor
}

// Settings resolves the org policy for the current invocation
func (app *AppContext) Settings() model.Settings {
	if app.Cfg == nil {
		// Demo mode runs without a config file
		return model.Settings{SchedulingMode: model.SchedulingOpen}
	}
	return app.Cfg.Settings()
}
