package models

import (
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const EventsColName = "events"

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Date        string             `bson:"date" json:"date"` // e.g. "2024-01-01"
	Time        string             `bson:"time" json:"time"` // e.g. "18:00"
	Location    string             `bson:"location" json:"location"`
	Organizer   string             `bson:"organizer" json:"organizer"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Likes       int                `bson:"likes" json:"likes"`
	LikedBy     []string           `bson:"likedBy" json:"likedBy"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateEventRequest is the body accepted by POST /events.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Organizer   string `json:"organizer" validate:"required"`
	Image       string `json:"image"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (r *CreateEventRequest) Sanitize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	r.Location = strings.TrimSpace(r.Location)
	r.Organizer = strings.TrimSpace(r.Organizer)
	r.Image = strings.TrimSpace(r.Image)
}

// NewEvent builds an unsaved event with zeroed social state.
func NewEvent(r *CreateEventRequest, now time.Time) *Event {
	return &Event{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Organizer:   r.Organizer,
		Image:       r.Image,
		Likes:       0,
		LikedBy:     []string{},
		Comments:    []Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (e *Event) BeforeCreate() error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	e.normalize()
	return nil
}

// normalize keeps empty collections rendering as [] rather than null.
func (e *Event) normalize() {
	if e.LikedBy == nil {
		e.LikedBy = []string{}
	}
	if e.Comments == nil {
		e.Comments = []Comment{}
	}
}

func (e *Event) IsLikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(e.LikedBy, userID)
}

// Clone returns a deep copy so callers cannot alias store-owned slices.
func (e *Event) Clone() *Event {
	c := *e
	c.LikedBy = slices.Clone(e.LikedBy)
	c.Comments = slices.Clone(e.Comments)
	c.normalize()
	return &c
}
