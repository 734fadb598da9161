package container

import (
	"log/slog"

	"github.com/joshua-takyi/eventapp/internal/broker"
	"github.com/joshua-takyi/eventapp/internal/helpers"
	"github.com/joshua-takyi/eventapp/internal/models"
	"github.com/joshua-takyi/eventapp/internal/services"
)

var defaultOrigins = []string{"http://localhost:3000"}

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	TokenVerifier  *helpers.TokenVerifier
	EventService   *services.EventService
	AllowedOrigins []string
}

// NewContainer creates a new dependency injection container. uploader and
// publisher are optional.
func NewContainer(
	logger *slog.Logger,
	eventsRepo models.EventsRepo,
	verifier *helpers.TokenVerifier,
	uploader services.ImageUploader,
	publisher broker.Publisher,
	allowedOrigins []string,
) *Container {
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultOrigins
	}

	return &Container{
		Logger:         logger,
		TokenVerifier:  verifier,
		EventService:   services.NewEventService(eventsRepo, uploader, publisher, logger),
		AllowedOrigins: allowedOrigins,
	}
}
