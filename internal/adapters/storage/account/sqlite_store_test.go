package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"referencer/internal/adapters/storage"
	domain "referencer/internal/domain/account"
)

// openTestDB creates an in-memory SQLite database with the full schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testAccount() domain.Account {
	return domain.Account{
		ID:           "acc-1",
		Email:        "user@example.com",
		PasswordHash: "$2a$12$fakehash",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteStore_SaveAndGetByID(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	want := testAccount()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByID(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Email != want.Email || got.PasswordHash != want.PasswordHash {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("got CreatedAt %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestSQLiteStore_GetByEmail(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	acc := testAccount()
	if err := store.Save(ctx, acc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, acc.Email)
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != acc.ID {
		t.Errorf("got ID %q, want %q", got.ID, acc.ID)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByEmail: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_SaveUpdatesLockout(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	acc := testAccount()
	if err := store.Save(ctx, acc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	acc.FailedLogins = 5
	acc.LockedUntil = time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
	if err := store.Save(ctx, acc); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.GetByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FailedLogins != 5 {
		t.Errorf("got FailedLogins %d, want 5", got.FailedLogins)
	}
	if !got.LockedUntil.Equal(acc.LockedUntil) {
		t.Errorf("got LockedUntil %v, want %v", got.LockedUntil, acc.LockedUntil)
	}
}

func TestSQLiteStore_DeleteAndCount(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	acc := testAccount()
	if err := store.Save(ctx, acc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("Count: got %d, %v; want 1, nil", count, err)
	}

	if err := store.Delete(ctx, acc.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, acc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v after delete, want ErrNotFound", err)
	}
}
