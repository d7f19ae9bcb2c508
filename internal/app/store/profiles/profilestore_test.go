package profilestore_test

import (
	"context"
	"testing"

	profilestore "github.com/datawell/datawell/internal/app/store/profiles"
	"github.com/datawell/datawell/internal/testutil"
)

func TestAddStorageBytes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx := context.Background()

	if err := store.AddStorageBytes(ctx, "bob", 1000); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddStorageBytes(ctx, "bob", -300); err != nil {
		t.Fatalf("subtract: %v", err)
	}

	n, err := store.StorageBytes(ctx, "bob")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 700 {
		t.Errorf("storage = %d, want 700", n)
	}
}

func TestAddStorageBytesFloorsAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx := context.Background()

	if err := store.AddStorageBytes(ctx, "bob", 100); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddStorageBytes(ctx, "bob", -5000); err != nil {
		t.Fatalf("subtract: %v", err)
	}

	n, err := store.StorageBytes(ctx, "bob")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 0 {
		t.Errorf("storage = %d, want floor at 0", n)
	}
}

func TestStorageBytesMissingProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)

	n, err := store.StorageBytes(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 0 {
		t.Errorf("storage = %d, want 0 for a missing profile", n)
	}
}

func TestAddStorageBytesCreatesProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx := context.Background()

	// First delta for an unseen owner must create the row on the fly.
	if err := store.AddStorageBytes(ctx, "newcomer", 42); err != nil {
		t.Fatalf("add: %v", err)
	}

	n, err := store.StorageBytes(ctx, "newcomer")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 42 {
		t.Errorf("storage = %d, want 42", n)
	}
}
