package favorites_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/outpost-labs/campsites/internal/app/features/errors"
	favoritesfeature "github.com/outpost-labs/campsites/internal/app/features/favorites"
	"github.com/outpost-labs/campsites/internal/testutil"
)

func newTestHandler(t *testing.T) (*favoritesfeature.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	errLog := uierrors.NewErrorLogger(zap.NewNop(), true)
	return favoritesfeature.NewHandler(db, errLog, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestServeAddOne_DoubleAdd(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)

	cs := fx.CreateCampsite(ctx, "River Bend")
	user := testutil.RegularUser()

	add := func() *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("POST", "/favorites/"+cs.ID.Hex(), user)
		req = testutil.WithChiURLParam(req, "campsiteID", cs.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeAddOne(rec, req)
		return rec
	}

	if rec := add(); rec.Code != http.StatusOK {
		t.Fatalf("first add: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec := add()
	if rec.Code != http.StatusOK {
		t.Fatalf("second add: got %d", rec.Code)
	}
	if got, want := rec.Body.String(), "Campsite already in favorites"; got != want {
		t.Errorf("second add body: got %q, want %q", got, want)
	}
}

func TestServeAddOne_UnknownCampsite(t *testing.T) {
	h, _ := newTestHandler(t)

	ghost := "64b000000000000000000001"
	req := testutil.NewAuthenticatedRequest("POST", "/favorites/"+ghost, testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "campsiteID", ghost)
	rec := httptest.NewRecorder()
	h.ServeAddOne(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown campsite: got %d, want 404", rec.Code)
	}
}

func TestServeAddMany_PopulatesCampsites(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)

	a := fx.CreateCampsite(ctx, "River Bend")
	b := fx.CreateCampsite(ctx, "Alpine Meadow")
	user := testutil.RegularUser()

	body := `[{"_id": "` + a.ID.Hex() + `"}, {"_id": "` + b.ID.Hex() + `"}]`
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/favorites", body), user)
	rec := httptest.NewRecorder()
	h.ServeAddMany(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("add many: got %d, body %s", rec.Code, rec.Body.String())
	}

	var got struct {
		User      string `json:"user"`
		Campsites []struct {
			Name string `json:"name"`
		} `json:"campsites"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.User != user.ID.Hex() {
		t.Errorf("user: got %s, want %s", got.User, user.ID.Hex())
	}
	if len(got.Campsites) != 2 {
		t.Fatalf("campsites: got %d, want 2", len(got.Campsites))
	}
	if got.Campsites[0].Name == "" {
		t.Error("campsite references must be populated into full documents")
	}
}

func TestServeRemoveOne_NoFavorites(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)

	cs := fx.CreateCampsite(ctx, "River Bend")
	req := testutil.NewAuthenticatedRequest("DELETE", "/favorites/"+cs.ID.Hex(), testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "campsiteID", cs.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeRemoveOne(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("remove with no favorites: got %d", rec.Code)
	}
	if got, want := rec.Body.String(), "There are no favorites to delete."; got != want {
		t.Errorf("body: got %q, want %q", got, want)
	}
}

func TestServeClear_NoFavorites(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest("DELETE", "/favorites", testutil.RegularUser())
	rec := httptest.NewRecorder()
	h.ServeClear(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("clear with no favorites: got %d", rec.Code)
	}
	if got, want := rec.Body.String(), "You do not have any favorites to delete."; got != want {
		t.Errorf("body: got %q, want %q", got, want)
	}
}

func TestServeGet_OnlyOwnSet(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)

	cs := fx.CreateCampsite(ctx, "River Bend")
	alice := testutil.RegularUser()
	fx.CreateFavorite(ctx, alice.ID, cs.ID)

	// Another user sees their own (empty) view, not alice's.
	bob := testutil.TestUser{ID: primitive.NewObjectID(), Username: "bob"}
	req := testutil.NewAuthenticatedRequest("GET", "/favorites", bob)
	rec := httptest.NewRecorder()
	h.ServeGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("user without favorites: got %d, want 404", rec.Code)
	}

	req = testutil.NewAuthenticatedRequest("GET", "/favorites", alice)
	rec = httptest.NewRecorder()
	h.ServeGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: got %d", rec.Code)
	}

	var got struct {
		Campsites []struct {
			ID string `json:"id"`
		} `json:"campsites"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Campsites) != 1 || got.Campsites[0].ID != cs.ID.Hex() {
		t.Errorf("campsites: %+v", got.Campsites)
	}
}
