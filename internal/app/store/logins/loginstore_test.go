package loginstore_test

import (
	"testing"

	loginstore "github.com/tdnguyen/phieutrinh/internal/app/store/logins"
	"github.com/tdnguyen/phieutrinh/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_RecordAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if err := store.Record(ctx, &userID, "alice", true, "10.0.0.1"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	// Failed attempts have no resolved user.
	if err := store.Record(ctx, nil, "alice", false, "10.0.0.2"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, nil, "mallory", false, "10.0.0.3"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	recs, err := store.RecentForUsername(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("RecentForUsername failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records for alice, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.Username != "alice" {
			t.Errorf("unexpected username %q", rec.Username)
		}
	}
}

func TestStore_RecentForUsername_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, nil, "alice", false, "10.0.0.1"); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recs, err := store.RecentForUsername(ctx, "alice", 3)
	if err != nil {
		t.Fatalf("RecentForUsername failed: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("expected limit of 3, got %d", len(recs))
	}
}
