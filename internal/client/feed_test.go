package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/joshua-takyi/eventapp/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeAPI struct {
	list    []*models.Event
	like    *models.Event
	comment *models.Event
	err     error
}

func (f *fakeAPI) ListEvents(context.Context) ([]*models.Event, error) { return f.list, f.err }

func (f *fakeAPI) ToggleLike(context.Context, string) (*models.Event, error) { return f.like, f.err }

func (f *fakeAPI) AddComment(context.Context, string, string) (*models.Event, error) {
	return f.comment, f.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func makeEvents(n int) []*models.Event {
	events := make([]*models.Event, n)
	for i := range events {
		events[i] = &models.Event{ID: primitive.NewObjectID(), Title: "event", LikedBy: []string{}}
	}
	return events
}

// viewerToken carries {"userId":"u1"}.
const viewerToken = hs256Header + ".eyJ1c2VySWQiOiJ1MSJ9.c2ln"

func TestOnLikeResponseReplacesOnlyMatchingID(t *testing.T) {
	feed := NewFeed(&fakeAPI{}, viewerToken, quiet())
	events := makeEvents(5)
	feed.OnFetch(events)
	before := feed.Events()

	target := events[2]
	updated := &models.Event{ID: target.ID, Likes: 1, LikedBy: []string{"u1"}}
	if !feed.OnLikeResponse(updated) {
		t.Fatal("expected a match")
	}

	after := feed.Events()
	if len(after) != len(before) {
		t.Fatalf("len changed from %d to %d", len(before), len(after))
	}
	changed := 0
	for i := range after {
		if after[i] != before[i] {
			changed++
			if after[i] != updated || i != 2 {
				t.Errorf("unexpected replacement at %d", i)
			}
		}
	}
	if changed != 1 {
		t.Fatalf("%d entries changed, want exactly 1", changed)
	}
	if before[2] != target {
		t.Error("previous snapshot was mutated in place")
	}
	if !feed.IsLiked(after[2]) {
		t.Error("viewer u1 should see the event as liked")
	}
}

func TestOnLikeResponseUnknownIDLeavesListAlone(t *testing.T) {
	feed := NewFeed(&fakeAPI{}, viewerToken, quiet())
	feed.OnFetch(makeEvents(3))
	before := feed.Events()

	if feed.OnLikeResponse(&models.Event{ID: primitive.NewObjectID()}) {
		t.Fatal("no entry should match")
	}
	after := feed.Events()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("entry %d changed", i)
		}
	}
	if feed.OnCommentResponse(nil) {
		t.Error("nil response should not match")
	}
}

func TestUnknownViewerNeverLikes(t *testing.T) {
	feed := NewFeed(&fakeAPI{}, "", quiet())
	ev := &models.Event{ID: primitive.NewObjectID(), LikedBy: []string{"u1", ""}}
	if feed.ViewerID() != "" {
		t.Fatalf("ViewerID = %q", feed.ViewerID())
	}
	if feed.IsLiked(ev) {
		t.Error("unknown viewer must not see likes")
	}
}

func TestFailedActionsLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	events := makeEvents(2)
	api := &fakeAPI{list: events}
	feed := NewFeed(api, viewerToken, quiet())
	if err := feed.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	before := feed.Events()

	api.err = &APIError{StatusCode: 500}
	api.like = &models.Event{ID: events[0].ID, Likes: 99}
	api.comment = &models.Event{ID: events[1].ID}

	if err := feed.Like(ctx, events[0].ID.Hex()); err == nil {
		t.Error("Like should report failure")
	}
	if err := feed.Comment(ctx, events[1].ID.Hex(), "hi"); err == nil {
		t.Error("Comment should report failure")
	}
	if err := feed.Refresh(ctx); err == nil {
		t.Error("Refresh should report failure")
	}

	after := feed.Events()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("entry %d changed after failed calls", i)
		}
	}
	var apiErr *APIError
	if !errors.As(api.err, &apiErr) {
		t.Fatal("sanity: api error type")
	}
}

func TestSuccessfulActionsReconcile(t *testing.T) {
	ctx := context.Background()
	events := makeEvents(2)
	api := &fakeAPI{list: events}
	feed := NewFeed(api, viewerToken, quiet())
	_ = feed.Refresh(ctx)

	api.like = &models.Event{ID: events[0].ID, Likes: 1, LikedBy: []string{"u1"}}
	if err := feed.Like(ctx, events[0].ID.Hex()); err != nil {
		t.Fatal(err)
	}
	api.comment = &models.Event{ID: events[1].ID, Comments: []models.Comment{{Text: "hi"}}}
	if err := feed.Comment(ctx, events[1].ID.Hex(), "hi"); err != nil {
		t.Fatal(err)
	}

	got := feed.Events()
	if got[0] != api.like || got[1] != api.comment {
		t.Fatalf("feed not reconciled: %+v", got)
	}
}

func TestReplaceSkipsNullEntries(t *testing.T) {
	feed := NewFeed(&fakeAPI{}, viewerToken, quiet())
	target := &models.Event{ID: primitive.NewObjectID()}
	feed.OnFetch([]*models.Event{nil, target, nil})

	updated := &models.Event{ID: target.ID, Likes: 1, LikedBy: []string{"u1"}}
	if !feed.OnLikeResponse(updated) {
		t.Fatal("expected the non-null entry to match")
	}
	got := feed.Events()
	if got[0] != nil || got[1] != updated || got[2] != nil {
		t.Fatalf("unexpected list after replace: %v", got)
	}
	if feed.IsLiked(got[0]) {
		t.Error("null entry reported as liked")
	}
}
