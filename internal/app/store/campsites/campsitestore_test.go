package campsitestore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	campsitestore "github.com/outpost-labs/campsites/internal/app/store/campsites"
	"github.com/outpost-labs/campsites/internal/domain/models"
	"github.com/outpost-labs/campsites/internal/testutil"
)

func TestAddAndGetComment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := campsitestore.New(db)

	cs := fx.CreateCampsite(ctx, "River Bend")
	author := primitive.NewObjectID()

	updated, err := store.AddComment(ctx, cs.ID, models.Comment{Rating: 5, Text: "Lovely.", Author: author})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("comments: got %d, want 1", len(updated.Comments))
	}
	if updated.Comments[0].Author != author {
		t.Error("comment author must come from the caller-supplied identity")
	}

	got, err := store.GetComment(ctx, cs.ID, updated.Comments[0].ID)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got.Text != "Lovely." {
		t.Errorf("comment text: got %q", got.Text)
	}
}

func TestGetComment_OrdersCampsiteBeforeComment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := campsitestore.New(db)

	cs := fx.CreateCampsite(ctx, "River Bend")

	// Missing campsite wins even when the comment id is also unknown.
	_, err := store.GetComment(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, campsitestore.ErrNotFound) {
		t.Errorf("missing campsite: got %v, want ErrNotFound", err)
	}

	_, err = store.GetComment(ctx, cs.ID, primitive.NewObjectID())
	if !errors.Is(err, campsitestore.ErrCommentNotFound) {
		t.Errorf("missing comment: got %v, want ErrCommentNotFound", err)
	}
}

func TestUpdateComment_AuthorFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := campsitestore.New(db)

	author := primitive.NewObjectID()
	cs, comment := fx.CreateCampsiteWithComment(ctx, "River Bend", author)

	rating := 2
	text := "Changed my mind."

	// A different author matches nothing and writes nothing.
	_, matched, err := store.UpdateComment(ctx, cs.ID, comment.ID, primitive.NewObjectID(),
		campsitestore.CommentUpdate{Rating: &rating, Text: &text})
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if matched {
		t.Fatal("non-author write must not match")
	}

	// The author's write goes through.
	updated, matched, err := store.UpdateComment(ctx, cs.ID, comment.ID, author,
		campsitestore.CommentUpdate{Rating: &rating, Text: &text})
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if !matched {
		t.Fatal("author write must match")
	}
	if updated.Comments[0].Rating != 2 || updated.Comments[0].Text != "Changed my mind." {
		t.Errorf("comment after update: %+v", updated.Comments[0])
	}
	if updated.Comments[0].Author != author {
		t.Error("author must never change on update")
	}
}

func TestUpdateComment_PartialFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := campsitestore.New(db)

	author := primitive.NewObjectID()
	cs, comment := fx.CreateCampsiteWithComment(ctx, "River Bend", author)

	rating := 1
	updated, matched, err := store.UpdateComment(ctx, cs.ID, comment.ID, author,
		campsitestore.CommentUpdate{Rating: &rating})
	if err != nil || !matched {
		t.Fatalf("UpdateComment: matched=%v err=%v", matched, err)
	}
	if updated.Comments[0].Rating != 1 {
		t.Errorf("rating: got %d, want 1", updated.Comments[0].Rating)
	}
	if updated.Comments[0].Text != comment.Text {
		t.Error("text must be untouched when only the rating changes")
	}
}

func TestRemoveComment_AuthorFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := campsitestore.New(db)

	author := primitive.NewObjectID()
	cs, comment := fx.CreateCampsiteWithComment(ctx, "River Bend", author)

	_, matched, err := store.RemoveComment(ctx, cs.ID, comment.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	if matched {
		t.Fatal("non-author delete must not match")
	}

	updated, matched, err := store.RemoveComment(ctx, cs.ID, comment.ID, author)
	if err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	if !matched {
		t.Fatal("author delete must match")
	}
	if len(updated.Comments) != 0 {
		t.Errorf("comments after delete: got %d, want 0", len(updated.Comments))
	}
}

func TestUpdateByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := campsitestore.New(db)

	_, err := store.UpdateByID(ctx, primitive.NewObjectID(), campsitestore.Update{Name: "Ghost"})
	if !errors.Is(err, campsitestore.ErrNotFound) {
		t.Errorf("update of missing campsite: got %v, want ErrNotFound", err)
	}
}

func TestDeleteByID_ReturnsDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := campsitestore.New(db)

	cs := fx.CreateCampsite(ctx, "River Bend")

	deleted, err := store.DeleteByID(ctx, cs.ID)
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if deleted.Name != "River Bend" {
		t.Errorf("deleted document: got %q", deleted.Name)
	}

	if _, err := store.GetByID(ctx, cs.ID); !errors.Is(err, campsitestore.ErrNotFound) {
		t.Errorf("lookup after delete: got %v, want ErrNotFound", err)
	}
}

func TestList_SortedByFoldedName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := campsitestore.New(db)

	fx.CreateCampsite(ctx, "zebra flats")
	fx.CreateCampsite(ctx, "Alpine Meadow")

	campsites, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(campsites) != 2 {
		t.Fatalf("count: got %d, want 2", len(campsites))
	}
	if campsites[0].Name != "Alpine Meadow" {
		t.Errorf("sort order ignores case: got %q first", campsites[0].Name)
	}
}
