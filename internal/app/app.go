package app

import (
	"context"

	"staykeeper/config"
	"staykeeper/internal/database"
	"staykeeper/internal/events"
	"staykeeper/internal/handlers/middleware"
	"staykeeper/internal/jobs"
	"staykeeper/internal/repositories"
	"staykeeper/internal/services"
	"staykeeper/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config
	Repository repositories.Repository
	Service    services.Service
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	service, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)

	if config.SchedulerEnabled {
		triageSweepJob := jobs.NewTriageSweepJob(service.Triage, services.Hourly)
		if err := service.Scheduler.AddJob(triageSweepJob); err != nil {
			return &App{}, log.Err("failed to register triage sweep job", err)
		}
		log.Info("Registered triage sweep job with scheduler")

		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:   db,
		Config:     config,
		Middleware: middleware,
		Websocket:  websocket,
		EventBus:   eventBus,
		Repository: repos,
		Service:    service,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Service.Transaction,
		a.Service.Scheduler,
		a.Service.UpgradeRules,
		a.Service.Heat,
		a.Service.Stay,
		a.Service.Checkout,
		a.Service.Triage,
		a.Repository.Property,
		a.Repository.Reservation,
		a.Repository.Upgrade,
		a.Repository.UpgradePurchase,
		a.Repository.ChatSession,
		a.Repository.ChatMessage,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Service.Scheduler != nil {
		if closeErr := a.Service.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
