package domain

import "time"

// Todo statuses used by the host's todo-list tool.
const (
	TodoPending    = "pending"
	TodoInProgress = "in_progress"
	TodoCompleted  = "completed"
)

// Todo is one entry of the host's todo list.
type Todo struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// ContextLog accumulates what happened during the session so the Stop
// hook can speak a summary of the work done.
type ContextLog struct {
	FilesCreated    []string  `json:"files_created"`
	FilesModified   []string  `json:"files_modified"`
	CommandsRun     []string  `json:"commands_run"`
	SearchesRun     []string  `json:"searches_run"`
	OperationsCount int       `json:"operations_count"`
	StartedAt       time.Time `json:"started_at"`
}

// SessionState is the single persisted coordination record for one
// interactive session. Every hook invocation loads it, and commits at
// most one read-modify-write against it.
type SessionState struct {
	SessionID string `json:"session_id"`

	// Dedup fields: what was last spoken, when, and a digest of its
	// normalized form for near-duplicate detection.
	LastSpokenText string    `json:"last_spoken_text"`
	LastSpokenHash string    `json:"last_spoken_hash"`
	LastSpokenAt   time.Time `json:"last_spoken_at"`

	// Per-tool rate limiting. Timestamps only move forward.
	ToolLastAnnouncedAt map[string]time.Time `json:"tool_last_announced_at"`

	// Bytes of the transcript already consumed. Never decreases.
	TranscriptOffset int64 `json:"transcript_offset"`

	// Prior todo list, for completion diffing.
	TodoSnapshot []Todo `json:"todo_snapshot"`

	// Accumulated operations for the end-of-session summary.
	ContextLog ContextLog `json:"context_log"`

	// One-shot: the first assistant response gets a longer summary.
	InitialSummaryEmitted bool `json:"initial_summary_emitted"`
}

// DefaultSessionState returns a fresh state record for a session.
func DefaultSessionState(sessionID string) SessionState {
	return SessionState{
		SessionID:           sessionID,
		ToolLastAnnouncedAt: make(map[string]time.Time),
		ContextLog:          ContextLog{StartedAt: time.Now().UTC()},
	}
}

// ResetTaskContext clears everything scoped to one prompt/response
// exchange: the context log, the todo snapshot, the one-shot summary
// flag, and the transcript offset (a new conversation means previous
// transcript positions are meaningless).
func (s *SessionState) ResetTaskContext() {
	s.ContextLog = ContextLog{StartedAt: time.Now().UTC()}
	s.TodoSnapshot = nil
	s.InitialSummaryEmitted = false
	s.TranscriptOffset = 0
}

// RecordOperation folds one tool use into the context log.
func (s *SessionState) RecordOperation(tool, filePath, command, query string) {
	s.ContextLog.OperationsCount++

	switch {
	case tool == "Write" && filePath != "":
		s.ContextLog.FilesCreated = append(s.ContextLog.FilesCreated, filePath)
	case (tool == "Edit" || tool == "MultiEdit") && filePath != "":
		s.ContextLog.FilesModified = append(s.ContextLog.FilesModified, filePath)
	case tool == "Bash" && command != "":
		s.ContextLog.CommandsRun = append(s.ContextLog.CommandsRun, command)
	case (tool == "Grep" || tool == "Glob" || tool == "WebSearch") && query != "":
		s.ContextLog.SearchesRun = append(s.ContextLog.SearchesRun, query)
	}
}

// DiffCompletedTodos returns the descriptions of todos that moved to
// completed relative to the stored snapshot. It does not mutate the
// snapshot; the caller folds the new list in via the commit.
func (s *SessionState) DiffCompletedTodos(next []Todo) []string {
	prior := make(map[string]Todo, len(s.TodoSnapshot))
	for _, t := range s.TodoSnapshot {
		prior[t.ID] = t
	}

	var completed []string
	for _, t := range next {
		old, ok := prior[t.ID]
		if !ok {
			continue
		}
		if old.Status != TodoCompleted && t.Status == TodoCompleted {
			completed = append(completed, t.Content)
		}
	}
	return completed
}

// AdvanceTranscript moves the stored offset forward. A smaller value is
// ignored — offsets never regress through this path; rotation is an
// explicit ResetTranscript.
func (s *SessionState) AdvanceTranscript(offset int64) {
	if offset > s.TranscriptOffset {
		s.TranscriptOffset = offset
	}
}

// ResetTranscript rewinds the offset after the transcript file was
// rotated or truncated and re-read from the start.
func (s *SessionState) ResetTranscript(offset int64) {
	if offset < 0 {
		offset = 0
	}
	s.TranscriptOffset = offset
}

// MarkSpoken records a delivered announcement for deduplication.
func (s *SessionState) MarkSpoken(text, hash string, at time.Time) {
	s.LastSpokenText = text
	s.LastSpokenHash = hash
	if at.After(s.LastSpokenAt) {
		s.LastSpokenAt = at
	}
}

// MarkAnnounced stamps the per-tool rate-limit clock. Timestamps only
// move forward.
func (s *SessionState) MarkAnnounced(tool string, at time.Time) {
	if s.ToolLastAnnouncedAt == nil {
		s.ToolLastAnnouncedAt = make(map[string]time.Time)
	}
	if at.After(s.ToolLastAnnouncedAt[tool]) {
		s.ToolLastAnnouncedAt[tool] = at
	}
}
