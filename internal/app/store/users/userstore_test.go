package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/tdnguyen/phieutrinh/internal/app/store/users"
	"github.com/tdnguyen/phieutrinh/internal/app/system/indexes"
	"github.com/tdnguyen/phieutrinh/internal/domain/models"
	"github.com/tdnguyen/phieutrinh/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*userstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return userstore.New(db), testutil.NewFixtures(t, db)
}

func TestStore_Create(t *testing.T) {
	store, f := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := f.CreateOrganization(ctx, "Engineering")

	u, err := store.Create(ctx, "alice", "s3cret-pw", models.RoleApprover, &org.ID, "team lead")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-pw" {
		t.Error("expected password to be hashed")
	}
	if u.OrganizationID == nil || *u.OrganizationID != org.ID {
		t.Error("expected organization to be set")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", "pw-123456", "superuser", nil, ""); err == nil {
		t.Error("expected an error for an unknown role")
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", "pw-123456", models.RoleRegular, nil, ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, "alice", "other-pw-1", models.RoleAdmin, nil, "")
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_Authenticate(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", "correct-horse", models.RoleRegular, nil, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := store.Authenticate(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("unexpected user %q", u.Username)
	}
}

func TestStore_Authenticate_Failures(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", "correct-horse", models.RoleRegular, nil, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Wrong password and unknown user collapse to the same error.
	if _, err := store.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("wrong password: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Authenticate(ctx, "nobody", "correct-horse"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("unknown user: expected ErrNotFound, got %v", err)
	}

	// Usernames are case-sensitive.
	if _, err := store.Authenticate(ctx, "Alice", "correct-horse"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("case variant: expected ErrNotFound, got %v", err)
	}
}

func TestStore_Update_KeepsPasswordOnNil(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "alice", "correct-horse", models.RoleRegular, nil, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, u.ID, userstore.Update{
		Username: "alice",
		Role:     models.RoleApprover,
		Notes:    "promoted",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// The old password still works after the password-less update.
	got, err := store.Authenticate(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate after update failed: %v", err)
	}
	if got.Role != models.RoleApprover {
		t.Errorf("expected role to change, got %q", got.Role)
	}
	if got.Notes != "promoted" {
		t.Errorf("expected notes to change, got %q", got.Notes)
	}
}

func TestStore_Update_ChangesPassword(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "alice", "old-password", models.RoleRegular, nil, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newPw := "new-password"
	err = store.Update(ctx, u.ID, userstore.Update{
		Username: "alice",
		Password: &newPw,
		Role:     models.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := store.Authenticate(ctx, "alice", "old-password"); !errors.Is(err, userstore.ErrNotFound) {
		t.Error("expected old password to stop working")
	}
	if _, err := store.Authenticate(ctx, "alice", "new-password"); err != nil {
		t.Errorf("expected new password to work, got %v", err)
	}
}

func TestStore_Update_ClearsOrganization(t *testing.T) {
	store, f := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := f.CreateOrganization(ctx, "Engineering")
	u, err := store.Create(ctx, "alice", "pw-123456", models.RoleRegular, &org.ID, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, u.ID, userstore.Update{
		Username: "alice",
		Role:     models.RoleRegular,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OrganizationID != nil {
		t.Error("expected organization reference to be cleared")
	}
}

func TestStore_Update_DuplicateUsername(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", "pw-123456", models.RoleRegular, nil, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	u, err := store.Create(ctx, "bob", "pw-123456", models.RoleRegular, nil, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, u.ID, userstore.Update{Username: "alice", Role: models.RoleRegular})
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "bob", "pw-123456", models.RoleRegular, nil, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, u.ID); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected user to be gone, got %v", err)
	}
}

func TestStore_Delete_ProtectedAccount(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.ReservedAdminUsername, "pw-123456", models.RoleAdmin, nil, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, u.ID); !errors.Is(err, userstore.ErrProtectedAccount) {
		t.Errorf("expected ErrProtectedAccount, got %v", err)
	}

	// Still present.
	if _, err := store.GetByID(ctx, u.ID); err != nil {
		t.Errorf("expected protected account to survive, got %v", err)
	}
}

func TestStore_Delete_NotFound(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_CountByOrganization(t *testing.T) {
	store, f := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := f.CreateOrganization(ctx, "Engineering")
	other := f.CreateOrganization(ctx, "Marketing")
	f.CreateUser(ctx, "alice", models.RoleRegular, &org.ID)
	f.CreateUser(ctx, "bob", models.RoleApprover, &org.ID)
	f.CreateUser(ctx, "carol", models.RoleRegular, &other.ID)

	n, err := store.CountByOrganization(ctx, org.ID)
	if err != nil {
		t.Fatalf("CountByOrganization failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}
