package middleware

import (
	"staykeeper/config"
	"staykeeper/internal/database"
	"staykeeper/internal/events"
	"staykeeper/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB          database.DB
	sessionRepo repositories.ChatSessionRepository
	Config      config.Config
	log         logger.Logger
	eventBus    *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:          db,
		sessionRepo: repos.ChatSession,
		Config:      config,
		log:         log,
		eventBus:    eventBus,
	}
}
