package memory

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendAndHistoryOrder(t *testing.T) {
	conv := NewConversation()

	conv.Append("s1", RoleUser, "first")
	conv.Append("s1", RoleAssistant, "second")
	conv.Append("s1", RoleUser, "third")

	history := conv.History("s1")
	if len(history) != 3 {
		t.Fatalf("Expected 3 turns, got %d", len(history))
	}

	expected := []Turn{
		{RoleUser, "first"},
		{RoleAssistant, "second"},
		{RoleUser, "third"},
	}
	for i, turn := range expected {
		if history[i] != turn {
			t.Errorf("Turn %d = %+v, expected %+v", i, history[i], turn)
		}
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	conv := NewConversation()

	history := conv.History("never-seen")
	if len(history) != 0 {
		t.Errorf("Expected empty history for unknown session, got %d turns", len(history))
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	conv := NewConversation()
	conv.Append("s1", RoleUser, "original")

	history := conv.History("s1")
	history[0].Text = "mutated"

	if got := conv.History("s1")[0].Text; got != "original" {
		t.Errorf("History exposed internal state: %q", got)
	}
}

func TestClear(t *testing.T) {
	conv := NewConversation()
	conv.Append("s1", RoleUser, "hello")
	conv.Append("s2", RoleUser, "other session")

	conv.Clear("s1")

	if n := conv.Len("s1"); n != 0 {
		t.Errorf("Expected 0 turns after clear, got %d", n)
	}
	if n := conv.Len("s2"); n != 1 {
		t.Errorf("Clear must not touch other sessions, got %d turns", n)
	}

	// Clearing an unknown session is a no-op
	conv.Clear("never-seen")
}

func TestConcurrentAppends(t *testing.T) {
	conv := NewConversation()

	const appends = 100
	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conv.Append("s1", RoleUser, fmt.Sprintf("turn %d", n))
		}(i)
	}
	wg.Wait()

	if n := conv.Len("s1"); n != appends {
		t.Errorf("Expected %d turns after concurrent appends, got %d", appends, n)
	}
}
