package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTouchFirstContact(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Touch(ctx, "user-1")
	if err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if !first {
		t.Error("Expected first=true on initial touch")
	}

	// Every later touch is a returning contact
	for i := 0; i < 3; i++ {
		first, err = store.Touch(ctx, "user-1")
		if err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
		if first {
			t.Errorf("Touch %d reported first contact again", i+2)
		}
	}
}

func TestTouchIncrementsCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if _, err := store.Touch(ctx, "user-1"); err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
		count, err := store.MessageCount(ctx, "user-1")
		if err != nil {
			t.Fatalf("MessageCount failed: %v", err)
		}
		if count != i {
			t.Errorf("After %d touches count = %d", i, count)
		}
	}
}

func TestTouchIsolatesUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Touch(ctx, "user-1"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if _, err := store.Touch(ctx, "user-1"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	first, err := store.Touch(ctx, "user-2")
	if err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if !first {
		t.Error("user-2 must be first contact regardless of user-1's history")
	}
}

func TestMessageCountUnknownUser(t *testing.T) {
	store := newTestStore(t)

	count, err := store.MessageCount(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("MessageCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 for unknown user, got %d", count)
	}
}

func TestSessionKeyFormat(t *testing.T) {
	if got := sessionKey("12345"); got != "session:12345" {
		t.Errorf("sessionKey = %q, expected session:12345", got)
	}
}

func TestTouchConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const touches = 20
	var wg sync.WaitGroup
	for i := 0; i < touches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Touch(ctx, "user-1"); err != nil {
				t.Errorf("Touch failed: %v", err)
			}
		}()
	}
	wg.Wait()

	count, err := store.MessageCount(ctx, "user-1")
	if err != nil {
		t.Fatalf("MessageCount failed: %v", err)
	}
	if count != touches {
		t.Errorf("Expected count %d after concurrent touches, got %d", touches, count)
	}
}
