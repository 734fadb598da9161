package models

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-process EventsRepo used for local runs and tests. It
// follows the same read-then-guarded-write protocol as MongodbRepo.
type MemoryRepo struct {
	mu     sync.RWMutex
	order  []primitive.ObjectID
	events map[primitive.ObjectID]*Event
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		events: make(map[primitive.ObjectID]*Event),
	}
}

func (m *MemoryRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]*Event, 0, len(m.order))
	for _, id := range m.order {
		events = append(events, m.events[id].Clone())
	}
	return events, nil
}

func (m *MemoryRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ev, ok := m.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return ev.Clone(), nil
}

func (m *MemoryRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if err := event.BeforeCreate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[event.ID] = event.Clone()
	m.order = append(m.order, event.ID)
	return event, nil
}

func (m *MemoryRepo) ToggleLike(ctx context.Context, id primitive.ObjectID, userID string) (*Event, bool, error) {
	current, err := m.GetEventByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	liked := current.IsLikedBy(userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.events[id]
	if !ok {
		return nil, false, ErrEventNotFound
	}
	// guard lost: another toggle already moved the membership
	if ev.IsLikedBy(userID) != liked {
		return ev.Clone(), false, nil
	}

	if liked {
		ev.Likes--
		ev.LikedBy = removeString(ev.LikedBy, userID)
	} else {
		ev.Likes++
		ev.LikedBy = append(ev.LikedBy, userID)
	}
	ev.UpdatedAt = time.Now()
	return ev.Clone(), true, nil
}

func (m *MemoryRepo) AddComment(ctx context.Context, id primitive.ObjectID, comment *Comment) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	ev.Comments = append(ev.Comments, *comment)
	ev.UpdatedAt = comment.CreatedAt
	return ev.Clone(), nil
}

func (m *MemoryRepo) Ping(ctx context.Context) error {
	return nil
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
