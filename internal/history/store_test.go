package history

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(t.TempDir(), log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestAppendReadAll verifies events round-trip in insertion order with their
// timestamps intact.
func TestAppendReadAll(t *testing.T) {
	s := testStore(t)

	first := time.Date(2026, 8, 27, 18, 30, 0, 0, time.Local)
	second := time.Date(2026, 8, 28, 7, 15, 0, 0, time.Local)

	for _, ev := range []ExecutionEvent{
		{WorkoutID: 1, Division: "A", CompletedAt: first, Completed: true},
		{WorkoutID: 2, Division: "B", CompletedAt: second, Completed: true},
	} {
		if err := s.Append(ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	events := s.ReadAll()
	if len(events) != 2 {
		t.Fatalf("ReadAll returned %d events, want 2", len(events))
	}
	if events[0].WorkoutID != 1 || events[0].Division != "A" {
		t.Errorf("first event = %+v, want workout 1 division A", events[0])
	}
	if !events[0].CompletedAt.Equal(first) {
		t.Errorf("first timestamp = %v, want %v", events[0].CompletedAt, first)
	}
	if !events[1].CompletedAt.Equal(second) {
		t.Errorf("second timestamp = %v, want %v", events[1].CompletedAt, second)
	}
	if !events[0].Completed {
		t.Error("first event not marked completed")
	}
}

// TestAppendValidation verifies workout id and division are required.
func TestAppendValidation(t *testing.T) {
	s := testStore(t)

	if err := s.Append(ExecutionEvent{Division: "A", Completed: true}); err == nil {
		t.Error("Append without workout id succeeded, want error")
	}
	if err := s.Append(ExecutionEvent{WorkoutID: 1, Completed: true}); err == nil {
		t.Error("Append without division succeeded, want error")
	}
	if got := s.ReadAll(); len(got) != 0 {
		t.Errorf("ReadAll after rejected appends = %d events, want 0", len(got))
	}
}

// TestAppendStampsZeroTime verifies a zero CompletedAt is filled in.
func TestAppendStampsZeroTime(t *testing.T) {
	s := testStore(t)

	before := time.Now()
	if err := s.Append(ExecutionEvent{WorkoutID: 1, Division: "A", Completed: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events := s.ReadAll()
	if len(events) != 1 {
		t.Fatalf("ReadAll returned %d events, want 1", len(events))
	}
	if events[0].CompletedAt.Before(before.Add(-time.Second)) {
		t.Errorf("CompletedAt = %v, want around %v", events[0].CompletedAt, before)
	}
}

// TestClearIdempotent verifies clear empties the log and stays safe to
// repeat.
func TestClearIdempotent(t *testing.T) {
	s := testStore(t)

	if err := s.Append(ExecutionEvent{WorkoutID: 1, Division: "A", Completed: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear #%d: %v", i+1, err)
		}
		if got := s.ReadAll(); len(got) != 0 {
			t.Errorf("ReadAll after Clear #%d = %d events, want 0", i+1, len(got))
		}
	}
}

// TestReadAllFailOpen verifies an unreadable store reports empty history
// instead of failing: absence of history must never block training.
func TestReadAllFailOpen(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(t.TempDir(), log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Append(ExecutionEvent{WorkoutID: 1, Division: "A", Completed: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s.Close()

	if got := s.ReadAll(); got != nil {
		t.Errorf("ReadAll on closed store = %v, want nil", got)
	}
}

// TestPersistenceAcrossReopen verifies the log survives process restarts.
func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(dir, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Append(ExecutionEvent{WorkoutID: 5, Division: "C", Completed: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s.Close()

	s2, err := Open(dir, log)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	events := s2.ReadAll()
	if len(events) != 1 || events[0].WorkoutID != 5 || events[0].Division != "C" {
		t.Errorf("after reopen ReadAll = %+v, want one event for workout 5 division C", events)
	}
}

// TestTokenLifecycle verifies the bearer token kv entry.
func TestTokenLifecycle(t *testing.T) {
	s := testStore(t)

	if _, ok := s.Token(); ok {
		t.Error("Token present on fresh store")
	}
	if err := s.SetToken("tok-123"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if tok, ok := s.Token(); !ok || tok != "tok-123" {
		t.Errorf("Token = %q, %v; want tok-123, true", tok, ok)
	}
	if err := s.SetToken("tok-456"); err != nil {
		t.Fatalf("SetToken overwrite: %v", err)
	}
	if tok, _ := s.Token(); tok != "tok-456" {
		t.Errorf("Token after overwrite = %q, want tok-456", tok)
	}
	if err := s.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Error("Token present after ClearToken")
	}
	// Clearing again is fine.
	if err := s.ClearToken(); err != nil {
		t.Fatalf("second ClearToken: %v", err)
	}
}

// TestInstallIDStable verifies the install id is generated once and reused.
func TestInstallIDStable(t *testing.T) {
	s := testStore(t)

	id, err := s.InstallID()
	if err != nil {
		t.Fatalf("InstallID: %v", err)
	}
	if id == "" {
		t.Fatal("InstallID returned empty id")
	}
	again, err := s.InstallID()
	if err != nil {
		t.Fatalf("second InstallID: %v", err)
	}
	if again != id {
		t.Errorf("InstallID changed between calls: %q then %q", id, again)
	}
}
