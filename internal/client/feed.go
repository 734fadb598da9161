package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joshua-takyi/eventapp/internal/models"
)

// EventAPI is the subset of Client the Feed depends on.
type EventAPI interface {
	ListEvents(ctx context.Context) ([]*models.Event, error)
	ToggleLike(ctx context.Context, id string) (*models.Event, error)
	AddComment(ctx context.Context, id, text string) (*models.Event, error)
}

// Feed is the viewer's copy of the event list. It only changes in response
// to a confirmed server reply; failed calls leave it untouched.
type Feed struct {
	api      EventAPI
	viewerID string
	logger   *slog.Logger

	mu     sync.RWMutex
	events []*models.Event
}

// NewFeed derives the viewer from token; see ViewerID.
func NewFeed(api EventAPI, token string, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		api:      api,
		viewerID: ViewerID(token),
		logger:   logger,
		events:   []*models.Event{},
	}
}

func (f *Feed) ViewerID() string {
	return f.viewerID
}

// Events returns the current list. Every update installs a fresh slice, so
// the returned value is a stable snapshot; callers must not modify it.
func (f *Feed) Events() []*models.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.events
}

func (f *Feed) IsLiked(ev *models.Event) bool {
	return ev != nil && ev.IsLikedBy(f.viewerID)
}

func (f *Feed) OnFetch(events []*models.Event) {
	if events == nil {
		events = []*models.Event{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = events
}

// OnLikeResponse swaps in the server's copy of one event. It reports whether
// an entry with that id was present.
func (f *Feed) OnLikeResponse(ev *models.Event) bool {
	return f.replace(ev)
}

func (f *Feed) OnCommentResponse(ev *models.Event) bool {
	return f.replace(ev)
}

// replace matches on ID, never on position. All other entries keep their
// pointers.
func (f *Feed) replace(ev *models.Event) bool {
	if ev == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, cur := range f.events {
		if cur == nil || cur.ID != ev.ID {
			continue
		}
		next := make([]*models.Event, len(f.events))
		copy(next, f.events)
		next[i] = ev
		f.events = next
		return true
	}
	return false
}

func (f *Feed) Refresh(ctx context.Context) error {
	events, err := f.api.ListEvents(ctx)
	if err != nil {
		f.logger.Error("Error fetching events", "error", err)
		return err
	}
	f.OnFetch(events)
	return nil
}

func (f *Feed) Like(ctx context.Context, id string) error {
	updated, err := f.api.ToggleLike(ctx, id)
	if err != nil {
		f.logger.Error("Error liking event", "event_id", id, "error", err)
		return err
	}
	f.OnLikeResponse(updated)
	return nil
}

func (f *Feed) Comment(ctx context.Context, id, text string) error {
	updated, err := f.api.AddComment(ctx, id, text)
	if err != nil {
		f.logger.Error("Error adding comment", "event_id", id, "error", err)
		return err
	}
	f.OnCommentResponse(updated)
	return nil
}
