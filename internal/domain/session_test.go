package domain

import (
	"testing"
	"time"
)

func TestDiffCompletedTodos(t *testing.T) {
	st := DefaultSessionState("s")
	st.TodoSnapshot = []Todo{
		{ID: "1", Content: "write parser", Status: TodoPending},
		{ID: "2", Content: "fix lexer", Status: TodoInProgress},
		{ID: "3", Content: "old work", Status: TodoCompleted},
	}

	next := []Todo{
		{ID: "1", Content: "write parser", Status: TodoCompleted},  // pending -> completed
		{ID: "2", Content: "fix lexer", Status: TodoCompleted},     // in_progress -> completed
		{ID: "3", Content: "old work", Status: TodoCompleted},      // already completed
		{ID: "4", Content: "brand new done", Status: TodoCompleted}, // no prior entry
	}

	got := st.DiffCompletedTodos(next)
	if len(got) != 2 || got[0] != "write parser" || got[1] != "fix lexer" {
		t.Fatalf("DiffCompletedTodos = %v, want only fresh transitions", got)
	}

	// The snapshot itself is untouched; folding it in is the caller's
	// commit.
	if st.TodoSnapshot[0].Status != TodoPending {
		t.Fatal("diff must not mutate the snapshot")
	}
}

func TestAdvanceTranscriptIsForwardOnly(t *testing.T) {
	st := DefaultSessionState("s")

	st.AdvanceTranscript(100)
	st.AdvanceTranscript(50)
	if st.TranscriptOffset != 100 {
		t.Fatalf("TranscriptOffset = %d, want 100", st.TranscriptOffset)
	}

	st.ResetTranscript(10)
	if st.TranscriptOffset != 10 {
		t.Fatalf("TranscriptOffset = %d, want 10 after explicit reset", st.TranscriptOffset)
	}
	st.ResetTranscript(-5)
	if st.TranscriptOffset != 0 {
		t.Fatalf("negative reset must clamp to 0, got %d", st.TranscriptOffset)
	}
}

func TestMarkAnnouncedIsForwardOnly(t *testing.T) {
	st := SessionState{} // nil map on purpose
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	st.MarkAnnounced("Edit", base)
	st.MarkAnnounced("Edit", base.Add(-time.Minute))
	if !st.ToolLastAnnouncedAt["Edit"].Equal(base) {
		t.Fatalf("stale stamp regressed the clock: %v", st.ToolLastAnnouncedAt["Edit"])
	}

	st.MarkAnnounced("Edit", base.Add(time.Minute))
	if !st.ToolLastAnnouncedAt["Edit"].Equal(base.Add(time.Minute)) {
		t.Fatalf("newer stamp not applied")
	}
}

func TestRecordOperation(t *testing.T) {
	st := DefaultSessionState("s")

	st.RecordOperation("Write", "/src/new.go", "", "")
	st.RecordOperation("Edit", "/src/old.go", "", "")
	st.RecordOperation("Bash", "", "go vet ./...", "")
	st.RecordOperation("Grep", "", "", "TODO")
	st.RecordOperation("Read", "/src/old.go", "", "") // counted, not categorized

	log := st.ContextLog
	if log.OperationsCount != 5 {
		t.Fatalf("OperationsCount = %d, want 5", log.OperationsCount)
	}
	if len(log.FilesCreated) != 1 || len(log.FilesModified) != 1 ||
		len(log.CommandsRun) != 1 || len(log.SearchesRun) != 1 {
		t.Fatalf("context log miscategorized: %+v", log)
	}
}

func TestResetTaskContext(t *testing.T) {
	st := DefaultSessionState("s")
	st.AdvanceTranscript(500)
	st.RecordOperation("Bash", "", "make", "")
	st.TodoSnapshot = []Todo{{ID: "1", Content: "x", Status: TodoPending}}
	st.InitialSummaryEmitted = true
	st.MarkSpoken("hello", "hash", time.Now())

	st.ResetTaskContext()

	if st.TranscriptOffset != 0 || st.ContextLog.OperationsCount != 0 ||
		st.TodoSnapshot != nil || st.InitialSummaryEmitted {
		t.Fatalf("task context not cleared: %+v", st)
	}
	// Dedup fields survive: the reset must not let the acknowledgment's
	// near neighbors repeat.
	if st.LastSpokenText != "hello" {
		t.Fatal("dedup fields must survive a task reset")
	}
}
