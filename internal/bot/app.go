// Package bot initializes and runs the application: it wires the store,
// the services, and the chat front end, starts the scan loop, and handles
// graceful shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/planbot/internal/config"
	"github.com/dmitrijs2005/planbot/internal/gateway"
	"github.com/dmitrijs2005/planbot/internal/logging"
	"github.com/dmitrijs2005/planbot/internal/repositories/repomanager"
	"github.com/dmitrijs2005/planbot/internal/services"
	"github.com/dmitrijs2005/planbot/internal/telegram"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	scheduler *services.SchedulerService
	focus     *services.FocusService
	front     *telegram.Bot
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	var repos repomanager.RepositoryManager
	if cfg.DatabaseDSN == "" {
		repos = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		repos, err = repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	client := telegram.NewClient(cfg.BotToken)
	sender := gateway.NewRetryingSender(client, logger)
	render := telegram.NewRenderer()

	carryover := services.NewCarryOverService(repos.Tasks(), logger)
	planner := services.NewPlannerService(repos.Tasks(), cfg.AlwaysPrompt)
	router := NewTriggerRouter(carryover, planner, sender, render, logger)

	scheduler := services.NewSchedulerService(repos.Users(), router, logger)
	focus := services.NewFocusService(repos.Sessions(), router, logger,
		cfg.WorkDuration, cfg.BreakDuration, cfg.MaxCycles)
	stats := services.NewStatsService(repos.Tasks())

	front := telegram.NewBot(client, repos.Users(), repos.Tasks(),
		focus, stats, scheduler, sender, logger,
		cfg.DefaultTimezone, cfg.PollTimeout)

	return &App{
		config:    cfg,
		logger:    logger,
		repos:     repos,
		scheduler: scheduler,
		focus:     focus,
		front:     front,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// scanLoop drives the trigger scheduler and the focus state machine on
// one shared ticker.
func (app *App) scanLoop(ctx context.Context) {
	ticker := time.NewTicker(app.config.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			app.scheduler.Tick(ctx, now)
			app.focus.Tick(ctx, now)
		}
	}
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	if err := app.scheduler.Bootstrap(ctx, time.Now()); err != nil {
		return fmt.Errorf("scheduler bootstrap error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.scanLoop(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.front.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error(ctx, "front end stopped", "error", err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
	return nil
}
