package models

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = newValidator()

// newValidator reports fields by their JSON names so validation messages
// match the request body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EventsRepo is the event store. ToggleLike and AddComment return the
// document as it stands after the write. ToggleLike also reports whether this
// call flipped the membership; false means a concurrent toggle got there first.
type EventsRepo interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	ToggleLike(ctx context.Context, id primitive.ObjectID, userID string) (*Event, bool, error)
	AddComment(ctx context.Context, id primitive.ObjectID, comment *Comment) (*Event, error)
	Ping(ctx context.Context) error
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) Ping(ctx context.Context) error {
	if mdb.mongodbClient == nil {
		return fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Ping(ctx, nil)
}
