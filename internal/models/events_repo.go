package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*Event, 0)
	for cursor.Next(ctx) {
		var ev Event
		if err := cursor.Decode(&ev); err != nil {
			return nil, fmt.Errorf("error decoding event: %w", err)
		}
		ev.normalize()
		events = append(events, &ev)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return events, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	return findEvent(ctx, col, id)
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if err := event.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare event for creation: %w", err)
	}
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event into database: %w", err)
	}
	return event, nil
}

// ToggleLike reads the event, decides the direction from the caller's current
// membership and applies the write only while that membership still holds.
// When a concurrent toggle wins the race the guard matches nothing and the
// winning state is returned with applied=false, so likes always equals
// len(likedBy).
func (mdb *MongodbRepo) ToggleLike(ctx context.Context, id primitive.ObjectID, userID string) (*Event, bool, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, false, fmt.Errorf("error getting collection: %w", err)
	}

	current, err := findEvent(ctx, col, id)
	if err != nil {
		return nil, false, err
	}

	filter, update := likeUpdate(id, userID, current.IsLikedBy(userID), time.Now())
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Event
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		latest, err := findEvent(ctx, col, id)
		return latest, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("error toggling like: %w", err)
	}
	updated.normalize()
	return &updated, true, nil
}

// likeUpdate builds the guarded filter and update for one toggle direction.
func likeUpdate(id primitive.ObjectID, userID string, liked bool, now time.Time) (bson.M, bson.M) {
	if liked {
		return bson.M{"_id": id, "likedBy": userID},
			bson.M{
				"$inc":  bson.M{"likes": -1},
				"$pull": bson.M{"likedBy": userID},
				"$set":  bson.M{"updatedAt": now},
			}
	}
	return bson.M{"_id": id, "likedBy": bson.M{"$ne": userID}},
		bson.M{
			"$inc":      bson.M{"likes": 1},
			"$addToSet": bson.M{"likedBy": userID},
			"$set":      bson.M{"updatedAt": now},
		}
}

// AddComment pushes the comment in a single update so concurrent appends
// cannot overwrite each other.
func (mdb *MongodbRepo) AddComment(ctx context.Context, id primitive.ObjectID, comment *Comment) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": comment.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Event
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error adding comment: %w", err)
	}
	updated.normalize()
	return &updated, nil
}

// EnsureIndexes creates the indexes backing list ordering and the like guard.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("created_at_idx"),
		},
		// multikey; serves the likedBy membership guard in ToggleLike
		{
			Keys:    bson.D{{Key: "_id", Value: 1}, {Key: "likedBy", Value: 1}},
			Options: options.Index().SetName("id_liked_by_idx"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}
	return nil
}

func findEvent(ctx context.Context, col *mongo.Collection, id primitive.ObjectID) (*Event, error) {
	var ev Event
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding event by ID: %w", err)
	}
	ev.normalize()
	return &ev, nil
}
