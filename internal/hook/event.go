// Package hook parses host hook invocations and runs each one through
// the announcement pipeline: load state, evaluate the event, check the
// deduplicator and rate limiter, take the speech lock, speak, and
// commit exactly one state update.
package hook

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// stdinPayload is the JSON the host writes to the hook's stdin.
type stdinPayload struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	Message        string          `json:"message"`
	ToolInput      *toolInput      `json:"tool_input"`
	ToolResponse   json.RawMessage `json:"tool_response"`
}

type toolInput struct {
	FilePath string        `json:"file_path"`
	Command  string        `json:"command"`
	Pattern  string        `json:"pattern"`
	Query    string        `json:"query"`
	Todos    []domain.Todo `json:"todos"`
}

// ParseEvent decodes a hook payload from r. It never fails: unreadable
// or malformed input yields a zero event the pipeline will ignore, and
// the problem lands in the debug log.
func ParseEvent(r io.Reader, log *logger.Logger) domain.Event {
	var ev domain.Event

	content, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		log.Warn("event: reading stdin: %v", err)
		return ev
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return ev
	}

	var p stdinPayload
	if err := json.Unmarshal(content, &p); err != nil {
		log.Warn("event: unparseable payload (%d bytes): %v", len(content), err)
		return ev
	}

	ev.Kind = domain.HookKindFromString(p.HookEventName)
	ev.SessionID = p.SessionID
	ev.TranscriptPath = p.TranscriptPath
	ev.Tool = p.ToolName
	ev.Message = p.Message
	ev.ToolOutput = flattenToolResponse(p.ToolResponse)
	if p.ToolInput != nil {
		ev.FilePath = p.ToolInput.FilePath
		ev.Command = p.ToolInput.Command
		ev.Query = p.ToolInput.Query
		if ev.Query == "" {
			ev.Query = p.ToolInput.Pattern
		}
		ev.Todos = p.ToolInput.Todos
	}
	return ev
}

// Merge backfills empty event fields from fallback values, typically
// command-line flags. Stdin values win when both are present.
func Merge(ev, fallback domain.Event) domain.Event {
	if ev.Kind == domain.HookUnknown {
		ev.Kind = fallback.Kind
	}
	if ev.Tool == "" {
		ev.Tool = fallback.Tool
	}
	if ev.SessionID == "" {
		ev.SessionID = fallback.SessionID
	}
	if ev.TranscriptPath == "" {
		ev.TranscriptPath = fallback.TranscriptPath
	}
	if ev.Message == "" {
		ev.Message = fallback.Message
	}
	if ev.FilePath == "" {
		ev.FilePath = fallback.FilePath
	}
	if ev.Command == "" {
		ev.Command = fallback.Command
	}
	if ev.Query == "" {
		ev.Query = fallback.Query
	}
	if ev.Override == "" {
		ev.Override = fallback.Override
	}
	return ev
}

// flattenToolResponse reduces the tool_response field, which may be a
// bare string or a structured object, to plain text.
func flattenToolResponse(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Output string `json:"output"`
		Stdout string `json:"stdout"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Output != "" {
			return obj.Output
		}
		return obj.Stdout
	}
	return ""
}
