// Package message centralises every spoken phrase. Edit this package to
// change the handler's personality. Keep lines short and direct; the
// TTS engine handles inflection.
package message

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/markhilton/claude-code-voice-handler/internal/config"
	"github.com/markhilton/claude-code-voice-handler/internal/domain"
	"github.com/markhilton/claude-code-voice-handler/internal/speech"
)

// toolActionPhrases are the natural announcements for tool starts.
// An empty value means the tool is handled specially and has no
// generic phrase (todo diffs, plan mode).
var toolActionPhrases = map[string]string{
	"Read":         "Reading",
	"NotebookRead": "Reading notebook",
	"Edit":         "Editing",
	"MultiEdit":    "Editing",
	"Write":        "Writing",
	"NotebookEdit": "Editing notebook",
	"Grep":         "Searching",
	"Glob":         "Finding files",
	"LS":           "Listing",
	"Bash":         "Running",
	"Task":         "Starting task",
	"WebFetch":     "Fetching",
	"WebSearch":    "Searching",
	"TodoWrite":    "",
	"ExitPlanMode": "",
}

// Composer builds announcement text from events and session state.
type Composer struct {
	cfg *config.Config
}

// NewComposer creates a composer with the given configuration.
func NewComposer(cfg *config.Config) *Composer {
	return &Composer{cfg: cfg}
}

// ToolAction returns the action phrase for a tool and whether the tool
// is announceable at all. A true result with empty text means the tool
// is known but handled specially.
func (c *Composer) ToolAction(tool string) (string, bool) {
	if phrase, ok := c.cfg.ToolPhrases[tool]; ok {
		return phrase, true
	}
	phrase, ok := toolActionPhrases[tool]
	return phrase, ok
}

// Acknowledgment is spoken when the user submits a new prompt.
func (c *Composer) Acknowledgment() string {
	name := c.cfg.Voice.UserNickname
	switch c.cfg.Voice.Personality {
	case config.PersonalityButler:
		if name != "" {
			return fmt.Sprintf("Very well, %s. I shall attend to it immediately.", name)
		}
		return "Very well. I shall attend to it immediately."
	case config.PersonalityCasual:
		if name != "" {
			return fmt.Sprintf("Hey %s, on it.", name)
		}
		return "On it."
	default:
		picks := []string{"On it.", "Working on it.", "Let me take a look."}
		line := picks[rand.Intn(len(picks))]
		if name != "" {
			return fmt.Sprintf("%s, %s", name, strings.ToLower(line[:1])+line[1:])
		}
		return line
	}
}

// ApprovalRequest is spoken when the assistant needs permission. It
// names the tool when known and always addresses the user directly so
// it cuts through.
func (c *Composer) ApprovalRequest(tool string) string {
	name := c.cfg.Voice.UserNickname
	subject := "your approval"
	if tool != "" {
		subject = "permission to use " + tool
	}
	if name != "" {
		return fmt.Sprintf("%s, Claude needs %s.", name, subject)
	}
	return fmt.Sprintf("Claude needs %s.", subject)
}

// TodoCompletion phrases a finished todo item in past tense.
func (c *Composer) TodoCompletion(task string) string {
	lower := strings.ToLower(task)
	verbs := []struct{ prefix, past string }{
		{"add ", "Added "},
		{"modify ", "Modified "},
		{"update ", "Updated "},
		{"create ", "Created "},
		{"fix ", "Fixed "},
		{"test ", "Tested "},
		{"examine ", "Examined "},
	}
	for _, v := range verbs {
		if strings.HasPrefix(lower, v.prefix) {
			return v.past + task[len(v.prefix):]
		}
	}
	return "Completed: " + task
}

// ReadAnnouncement names the file about to be read.
func (c *Composer) ReadAnnouncement(path string) string {
	return "Reading " + speech.FormatForSpeech(path)
}

// EditAnnouncement names the file about to be changed.
func (c *Composer) EditAnnouncement(path string) string {
	return "Editing " + speech.FormatForSpeech(path)
}

// CommandAnnouncement names the command about to run, shortened so long
// pipelines don't get read out in full.
func (c *Composer) CommandAnnouncement(command string) string {
	if len(command) > 30 {
		command = command[:27] + "..."
	}
	return "Running " + command
}

// SearchAnnouncement names the query about to be searched.
func (c *Composer) SearchAnnouncement(query string) string {
	return "Searching for " + query
}

// AllTasksDone is spoken when the host confirms a todo write and every
// item on the list is completed.
func (c *Composer) AllTasksDone() string {
	if name := c.cfg.Voice.UserNickname; name != "" {
		return "All tasks completed, " + name + "."
	}
	return "All tasks completed."
}

// SubagentDone is spoken when a delegated agent finishes.
func (c *Composer) SubagentDone() string {
	return "An agent finished its task."
}

// TaskSummary describes the work recorded in the context log, or ""
// when the session did nothing worth summarizing.
func (c *Composer) TaskSummary(st domain.SessionState) string {
	log := st.ContextLog
	if log.OperationsCount == 0 {
		return ""
	}

	var parts []string
	if n := uniqueCount(log.FilesCreated); n > 0 {
		parts = append(parts, "Created "+countNoun(n, "file"))
	}
	if n := uniqueCount(log.FilesModified); n > 0 {
		parts = append(parts, "Modified "+countNoun(n, "file"))
	}
	if n := len(log.CommandsRun); n > 0 {
		parts = append(parts, "Ran "+countNoun(n, "command"))
	}
	if n := len(log.SearchesRun); n > 0 {
		parts = append(parts, "Performed "+countNoun(n, "search", "searches"))
	}
	return strings.Join(parts, ". ")
}

// Completion is spoken on Stop. It prefers the assistant's own last
// message, falls back to the task summary, then to a bare "Done".
func (c *Composer) Completion(st domain.SessionState, lastMessage string) string {
	name := c.cfg.Voice.UserNickname

	if lastMessage != "" {
		if name != "" && c.cfg.Voice.Personality != config.PersonalityButler {
			return fmt.Sprintf("%s, %s", name, lastMessage)
		}
		return lastMessage
	}

	if summary := c.TaskSummary(st); summary != "" {
		return summary
	}

	if name != "" {
		return "Done, " + name + "."
	}
	return "Done."
}

func uniqueCount(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}

func countNoun(n int, noun string, plural ...string) string {
	if n == 1 {
		return "1 " + noun
	}
	p := noun + "s"
	if len(plural) > 0 {
		p = plural[0]
	}
	return strconv.Itoa(n) + " " + p
}
