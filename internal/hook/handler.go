package hook

import (
	"context"
	"strings"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/config"
	"github.com/markhilton/claude-code-voice-handler/internal/dedup"
	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
	"github.com/markhilton/claude-code-voice-handler/internal/message"
	"github.com/markhilton/claude-code-voice-handler/internal/ratelimit"
	"github.com/markhilton/claude-code-voice-handler/internal/transcript"
)

// completionMarkers flag transcript messages that report finished work.
// Those bypass the rate limiter the same way todo completions do.
var completionMarkers = []string{"completed:", "finished:", "✓", "☑"}

// decision is the evaluated outcome of one hook event, applied in a
// single state commit at the end of Handle.
type decision struct {
	text     string
	category ratelimit.Category
	// rateTool keys the per-tool rate limiter; empty means unkeyed.
	rateTool string

	// State mutations, applied whether or not anything is spoken.
	resetContext bool
	recordOp     bool
	opTool       string
	opFile       string
	opCommand    string
	opQuery      string
	todos        []domain.Todo // replacement snapshot, nil = keep
	offset       int64         // new transcript offset when offsetSet
	offsetSet    bool
	rotated      bool
	initialDone  bool // mark the one-shot summary emitted (if spoken)
}

// Handler runs hook events through the announcement pipeline.
type Handler struct {
	cfg      *config.Config
	log      *logger.Logger
	store    domain.StateStore
	reader   *transcript.Reader
	composer *message.Composer
	speaker  domain.Speaker
	lock     domain.Locker
}

// New assembles a handler from its collaborators.
func New(cfg *config.Config, log *logger.Logger, store domain.StateStore, reader *transcript.Reader,
	composer *message.Composer, speaker domain.Speaker, lock domain.Locker) *Handler {
	return &Handler{
		cfg:      cfg,
		log:      log,
		store:    store,
		reader:   reader,
		composer: composer,
		speaker:  speaker,
		lock:     lock,
	}
}

// Handle processes one hook event end to end. It never returns an
// error to the caller's exit path: every failure mode degrades to a
// skipped announcement, and exactly one state commit happens per call.
func (h *Handler) Handle(ctx context.Context, ev domain.Event) {
	h.log.Debug("pipeline: received %s (tool=%s session=%s)", ev.Kind, ev.Tool, ev.SessionID)

	st := h.store.Load()
	h.log.Debug("pipeline: loaded state (offset=%d, ops=%d)", st.TranscriptOffset, st.ContextLog.OperationsCount)

	d := h.evaluate(st, ev)
	if ev.Override != "" {
		d.text = ev.Override
	}
	h.log.Debug("pipeline: evaluated (text=%q, category=%d)", d.text, d.category)

	now := time.Now()
	spoken := h.deliver(ctx, st, d, now)

	h.commit(st, d, now, spoken)
}

// deliver runs the suppression checks and, if they pass, speaks under
// the cross-process speech lock. Returns whether audio was produced.
func (h *Handler) deliver(ctx context.Context, st domain.SessionState, d decision, now time.Time) bool {
	if d.text == "" {
		return false
	}

	if d.category != ratelimit.CategoryApproval &&
		dedup.IsDuplicate(d.text, st, now, h.cfg.DedupWindow()) {
		h.log.Info("pipeline: suppressed duplicate: %q", d.text)
		return false
	}
	if !ratelimit.Allow(d.rateTool, d.category, st, now, h.cfg.ToolInterval()) {
		h.log.Info("pipeline: suppressed rate-limited %s announcement", d.rateTool)
		return false
	}

	if err := h.lock.Acquire(h.cfg.SpeechLockTimeout()); err != nil {
		h.log.Warn("pipeline: speech lock unavailable, suppressing: %v", err)
		return false
	}
	defer h.lock.Release()

	if err := h.speaker.Speak(ctx, d.text, h.cfg.Voice.DefaultVoice); err != nil {
		h.log.Error("pipeline: speaking failed: %v", err)
		return false
	}
	h.log.Info("pipeline: spoke %q", d.text)
	return true
}

// commit folds the decision into the persisted state. Offset advances
// are independent of whether anything was spoken: consumed transcript
// bytes stay consumed.
func (h *Handler) commit(st domain.SessionState, d decision, now time.Time, spoken bool) {
	_, err := h.store.Commit(func(s *domain.SessionState) {
		if d.resetContext {
			s.ResetTaskContext()
		}
		if d.recordOp {
			s.RecordOperation(d.opTool, d.opFile, d.opCommand, d.opQuery)
		}
		if d.todos != nil {
			s.TodoSnapshot = d.todos
		}
		if d.offsetSet {
			if d.rotated {
				s.ResetTranscript(d.offset)
			} else {
				s.AdvanceTranscript(d.offset)
			}
		}
		if spoken {
			s.MarkSpoken(d.text, dedup.Digest(d.text), now)
			if d.rateTool != "" {
				s.MarkAnnounced(d.rateTool, now)
			}
			if d.initialDone {
				s.InitialSummaryEmitted = true
			}
		}
	})
	if err != nil {
		h.log.Error("pipeline: commit failed: %v", err)
		return
	}
	h.log.Debug("pipeline: committed (spoken=%v)", spoken)
}

// evaluate maps one hook event to an announcement decision.
func (h *Handler) evaluate(st domain.SessionState, ev domain.Event) decision {
	switch ev.Kind {
	case domain.HookUserPromptSubmit:
		return decision{
			text:         h.composer.Acknowledgment(),
			category:     ratelimit.CategoryCompletion,
			resetContext: true,
		}

	case domain.HookPreToolUse:
		return h.evaluatePreTool(st, ev)

	case domain.HookPostToolUse:
		return h.evaluatePostTool(st, ev)

	case domain.HookStop:
		return h.evaluateStop(st, ev)

	case domain.HookNotification:
		return h.evaluateNotification(ev)

	case domain.HookSessionStart:
		h.log.Info("pipeline: session start, resetting task context")
		return decision{resetContext: true}

	case domain.HookSubagentStop:
		return decision{
			text:     h.composer.SubagentDone(),
			category: ratelimit.CategoryActivity,
			rateTool: "Task",
		}

	case domain.HookPreCompact:
		h.log.Debug("pipeline: transcript compaction imminent, nothing to say")
		return decision{}

	default:
		h.log.Debug("pipeline: ignoring unknown hook")
		return decision{}
	}
}

// evaluatePreTool announces what a tool is about to do. The operation
// is recorded in the context log even when the announcement is silent.
func (h *Handler) evaluatePreTool(st domain.SessionState, ev domain.Event) decision {
	d := decision{
		category:  ratelimit.CategoryActivity,
		rateTool:  ev.Tool,
		recordOp:  true,
		opTool:    ev.Tool,
		opFile:    ev.FilePath,
		opCommand: ev.Command,
		opQuery:   ev.Query,
	}

	if h.cfg.IsSilentTool(ev.Tool) {
		return d
	}

	if ev.Tool == "TodoWrite" {
		d.todos = ev.Todos
		if completed := st.DiffCompletedTodos(ev.Todos); len(completed) > 0 {
			phrases := make([]string, len(completed))
			for i, task := range completed {
				phrases[i] = h.composer.TodoCompletion(task)
			}
			d.text = strings.Join(phrases, ". ")
			d.category = ratelimit.CategoryCompletion
		}
		return d
	}

	phrase, known := h.composer.ToolAction(ev.Tool)
	if !known || phrase == "" {
		return d
	}

	switch {
	case ev.Tool == "Read" && ev.FilePath != "":
		d.text = h.composer.ReadAnnouncement(ev.FilePath)
	case (ev.Tool == "Edit" || ev.Tool == "MultiEdit" || ev.Tool == "Write") && ev.FilePath != "":
		d.text = h.composer.EditAnnouncement(ev.FilePath)
	case ev.Tool == "Bash" && ev.Command != "":
		d.text = h.composer.CommandAnnouncement(ev.Command)
	case (ev.Tool == "Grep" || ev.Tool == "WebSearch") && ev.Query != "":
		d.text = h.composer.SearchAnnouncement(ev.Query)
	default:
		d.text = phrase
	}
	return d
}

// evaluatePostTool consumes newly appended transcript text and decides
// whether any of it deserves a voice. The offset advances regardless of
// the speak decision.
func (h *Handler) evaluatePostTool(st domain.SessionState, ev domain.Event) decision {
	d := decision{category: ratelimit.CategoryActivity, rateTool: "assistant"}

	if ev.Tool == "TodoWrite" {
		// Item completions were announced on the way in. Once the host
		// confirms the write landed and every item is done, close out
		// the whole list.
		if ev.ToolOutput != "" && allTodosCompleted(st.TodoSnapshot) {
			d.text = h.composer.AllTasksDone()
			d.category = ratelimit.CategoryCompletion
		}
		return d
	}
	if ev.TranscriptPath == "" {
		return d
	}

	res, err := h.reader.ReadNew(ev.TranscriptPath, st.TranscriptOffset)
	if err != nil {
		h.log.Error("pipeline: transcript read failed: %v", err)
		return d
	}
	d.offset = res.Offset
	d.offsetSet = true
	d.rotated = res.Rotated
	if len(res.Messages) == 0 {
		return d
	}

	// An approval request escalates no matter where it sits in the
	// batch: a newer ordinary message must not bury it behind the rate
	// limiter.
	for i := len(res.Messages) - 1; i >= 0; i-- {
		msg := res.Messages[i]
		if !msg.Approval {
			continue
		}
		if cleaned := transcript.CleanForSpeech(msg.Text); cleaned != "" {
			d.text = transcript.Summarize(cleaned, h.cfg.MessageMax, h.cfg.MessageMin)
			d.category = ratelimit.CategoryApproval
			return d
		}
	}

	// Walk newest-first for the first speakable message.
	for i := len(res.Messages) - 1; i >= 0; i-- {
		msg := res.Messages[i]
		cleaned := transcript.CleanForSpeech(msg.Text)
		if cleaned == "" {
			continue
		}

		switch {
		case hasCompletionMarker(cleaned):
			d.text = transcript.Summarize(cleaned, h.cfg.MessageMax, h.cfg.MessageMin)
			d.category = ratelimit.CategoryCompletion
		case !st.InitialSummaryEmitted:
			d.text = transcript.Summarize(cleaned, h.cfg.InitialSummaryMax, h.cfg.InitialSummaryMin)
			d.category = ratelimit.CategoryCompletion
			d.initialDone = true
		default:
			d.text = transcript.Summarize(cleaned, h.cfg.MessageMax, h.cfg.MessageMin)
		}
		return d
	}
	return d
}

// evaluateStop speaks the assistant's closing message, or a summary of
// the session's work when the transcript yields nothing speakable.
func (h *Handler) evaluateStop(st domain.SessionState, ev domain.Event) decision {
	d := decision{category: ratelimit.CategoryCompletion}

	last := ""
	if ev.TranscriptPath != "" {
		res, err := h.reader.ReadNew(ev.TranscriptPath, st.TranscriptOffset)
		if err != nil {
			h.log.Error("pipeline: transcript read failed: %v", err)
		} else {
			d.offset = res.Offset
			d.offsetSet = true
			d.rotated = res.Rotated
			for i := len(res.Messages) - 1; i >= 0; i-- {
				if cleaned := transcript.CleanForSpeech(res.Messages[i].Text); cleaned != "" {
					last = transcript.Summarize(cleaned, h.cfg.MessageMax, h.cfg.MessageMin)
					break
				}
			}
		}
		if last == "" {
			// Everything new was unspeakable; fall back to the final
			// message of the whole transcript.
			last = h.reader.LastMessage(ev.TranscriptPath, h.cfg.MessageMax, h.cfg.MessageMin)
		}
	}

	d.text = h.composer.Completion(st, last)
	return d
}

// evaluateNotification turns a host notification into speech. Messages
// asking for permission escalate past dedup and rate limiting.
func (h *Handler) evaluateNotification(ev domain.Event) decision {
	msg := strings.TrimSpace(ev.Message)
	if msg == "" {
		return decision{}
	}

	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "waiting for your input") ||
		transcript.DetectApprovalRequest(msg) {
		return decision{
			text:     h.composer.ApprovalRequest(permissionTool(msg)),
			category: ratelimit.CategoryApproval,
		}
	}

	return decision{
		text:     transcript.Summarize(transcript.CleanForSpeech(msg), h.cfg.MessageMax, h.cfg.MessageMin),
		category: ratelimit.CategoryActivity,
		rateTool: "notification",
	}
}

// permissionTool extracts the tool name from messages like
// "Claude needs your permission to use Bash".
func permissionTool(msg string) string {
	const marker = "permission to use "
	lower := strings.ToLower(msg)
	idx := strings.Index(lower, marker)
	if idx < 0 {
		return ""
	}
	rest := msg[idx+len(marker):]
	if end := strings.IndexAny(rest, " .,\n"); end > 0 {
		return rest[:end]
	}
	return rest
}

func allTodosCompleted(todos []domain.Todo) bool {
	if len(todos) == 0 {
		return false
	}
	for _, t := range todos {
		if t.Status != domain.TodoCompleted {
			return false
		}
	}
	return true
}

func hasCompletionMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range completionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
