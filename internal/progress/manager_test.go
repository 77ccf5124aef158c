package progress

import (
	"sync"
	"testing"
)

func TestManager_Disabled(t *testing.T) {
	m := NewManager(10, false)
	if m.IsEnabled() {
		t.Fatal("manager should be disabled")
	}

	// All operations are no-ops when disabled.
	m.Start("api", "query")
	m.Complete("api", "query", true)
	m.Finish()

	if m.InFlight() != 0 {
		t.Errorf("InFlight = %d, want 0", m.InFlight())
	}
	completed, passed, failed := m.Counts()
	if completed != 0 || passed != 0 || failed != 0 {
		t.Errorf("Counts = %d/%d/%d, want all zero", completed, passed, failed)
	}
}

func TestManager_TracksCounts(t *testing.T) {
	m := NewManager(3, true)

	m.Start("exa", "q1")
	m.Start("tavily", "q1")
	if m.InFlight() != 2 {
		t.Errorf("InFlight = %d, want 2", m.InFlight())
	}

	m.Complete("exa", "q1", true)
	m.Complete("tavily", "q1", false)
	if m.InFlight() != 0 {
		t.Errorf("InFlight = %d, want 0", m.InFlight())
	}

	completed, passed, failed := m.Counts()
	if completed != 2 || passed != 1 || failed != 1 {
		t.Errorf("Counts = %d/%d/%d, want 2/1/1", completed, passed, failed)
	}
}

func TestManager_ConcurrentUpdates(t *testing.T) {
	const n = 50
	m := NewManager(n, true)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			query := string(rune('a' + i%26))
			m.Start("api", query)
			m.Complete("api", query, i%2 == 0)
		}(i)
	}
	wg.Wait()

	completed, passed, failed := m.Counts()
	if completed != n {
		t.Errorf("completed = %d, want %d", completed, n)
	}
	if passed+failed != n {
		t.Errorf("passed+failed = %d, want %d", passed+failed, n)
	}
}
