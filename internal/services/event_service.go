package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/eventapp/internal/broker"
	"github.com/joshua-takyi/eventapp/internal/helpers"
	"github.com/joshua-takyi/eventapp/internal/metrics"
	"github.com/joshua-takyi/eventapp/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageUploader turns a local image reference into a hosted URL.
type ImageUploader interface {
	Upload(ctx context.Context, src string) (string, error)
}

type EventService struct {
	eventsRepo models.EventsRepo
	uploader   ImageUploader
	publisher  broker.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewEventService wires the service. uploader may be nil, in which case image
// references are stored as given; a nil publisher discards activity.
func NewEventService(eventsRepo models.EventsRepo, uploader ImageUploader, publisher broker.Publisher, logger *slog.Logger) *EventService {
	if publisher == nil {
		publisher = broker.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		eventsRepo: eventsRepo,
		uploader:   uploader,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (es *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx)
}

func (es *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}
	return es.eventsRepo.GetEventByID(ctx, oid)
}

func (es *EventService) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	req.Sanitize()
	if err := models.Validate.Struct(req); err != nil {
		return nil, validationError(models.ErrInvalidEvent, err)
	}

	if req.Image != "" && es.uploader != nil && !helpers.IsRemoteURL(req.Image) {
		url, err := es.uploader.Upload(ctx, req.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to upload event image: %w", err)
		}
		req.Image = url
	}

	created, err := es.eventsRepo.CreateEvent(ctx, models.NewEvent(req, es.now()))
	if err != nil {
		return nil, err
	}

	metrics.EventsCreated.Inc()
	es.publish(broker.EventCreated, map[string]interface{}{"event": created})
	return created, nil
}

// ToggleLike flips the caller's like on an event. userID must come from a
// verified token. A toggle that collapsed into a concurrent one returns the
// current state without publishing or counting anything.
func (es *EventService) ToggleLike(ctx context.Context, id string, userID string) (*models.Event, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	updated, applied, err := es.eventsRepo.ToggleLike(ctx, oid, userID)
	if err != nil {
		return nil, err
	}
	if !applied {
		es.logger.Debug("like toggle collapsed", "event_id", oid.Hex(), "user_id", userID, "likes", updated.Likes)
		return updated, nil
	}

	direction, key := "unlike", broker.EventUnliked
	if updated.IsLikedBy(userID) {
		direction, key = "like", broker.EventLiked
	}
	metrics.LikesToggled.WithLabelValues(direction).Inc()
	es.logger.Debug("like toggled", "event_id", oid.Hex(), "user_id", userID, "direction", direction, "likes", updated.Likes)
	es.publish(key, map[string]interface{}{"eventId": oid.Hex(), "userId": userID, "likes": updated.Likes})

	return updated, nil
}

func (es *EventService) AddComment(ctx context.Context, id string, req *models.AddCommentRequest) (*models.Event, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := models.Validate.Struct(req); err != nil {
		return nil, validationError(models.ErrInvalidComment, err)
	}
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      req.Text,
		CreatedAt: es.now(),
	}
	updated, err := es.eventsRepo.AddComment(ctx, oid, comment)
	if err != nil {
		return nil, err
	}

	metrics.CommentsAdded.Inc()
	es.publish(broker.EventCommented, map[string]interface{}{"eventId": oid.Hex(), "commentId": comment.ID.Hex()})
	return updated, nil
}

func (es *EventService) Ping(ctx context.Context) error {
	return es.eventsRepo.Ping(ctx)
}

func (es *EventService) publish(key string, payload interface{}) {
	if err := es.publisher.Publish(key, payload); err != nil {
		metrics.ActivityPublishFailures.Inc()
		es.logger.Warn("failed to publish activity", "routing_key", key, "error", err)
	}
}

// parseEventID maps ids that are not valid ObjectIDs to NotFound since no
// stored event can carry them.
func parseEventID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(helpers.StringTrim(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", models.ErrEventNotFound, id)
	}
	return oid, nil
}

func validationError(kind error, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fmt.Errorf("%w: missing required fields: %s", kind, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", kind, err)
}
