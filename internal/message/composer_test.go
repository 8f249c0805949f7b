package message

import (
	"strings"
	"testing"

	"github.com/markhilton/claude-code-voice-handler/internal/config"
	"github.com/markhilton/claude-code-voice-handler/internal/domain"
)

func newComposer(nickname, personality string) *Composer {
	cfg := config.Default()
	cfg.Voice.UserNickname = nickname
	if personality != "" {
		cfg.Voice.Personality = personality
	}
	return NewComposer(cfg)
}

func TestAcknowledgmentPersonalities(t *testing.T) {
	butler := newComposer("Mark", config.PersonalityButler).Acknowledgment()
	if butler != "Very well, Mark. I shall attend to it immediately." {
		t.Fatalf("butler ack = %q", butler)
	}

	casual := newComposer("Mark", config.PersonalityCasual).Acknowledgment()
	if casual != "Hey Mark, on it." {
		t.Fatalf("casual ack = %q", casual)
	}

	// The friendly default rotates through a small set; it must always
	// address the user by name.
	friendly := newComposer("Mark", "").Acknowledgment()
	if !strings.HasPrefix(friendly, "Mark, ") {
		t.Fatalf("friendly ack = %q, want nickname prefix", friendly)
	}
}

func TestApprovalRequest(t *testing.T) {
	c := newComposer("Mark", "")
	if got := c.ApprovalRequest("Bash"); got != "Mark, Claude needs permission to use Bash." {
		t.Fatalf("ApprovalRequest(Bash) = %q", got)
	}
	if got := c.ApprovalRequest(""); got != "Mark, Claude needs your approval." {
		t.Fatalf("ApprovalRequest() = %q", got)
	}

	anon := newComposer("", "")
	if got := anon.ApprovalRequest("Edit"); got != "Claude needs permission to use Edit." {
		t.Fatalf("anonymous ApprovalRequest = %q", got)
	}
}

func TestTodoCompletion(t *testing.T) {
	c := newComposer("", "")
	tests := []struct {
		in, want string
	}{
		{"add retry logic", "Added retry logic"},
		{"Fix the flaky test", "Fixed the flaky test"},
		{"update dependencies", "Updated dependencies"},
		{"create the config loader", "Created the config loader"},
		{"refactor the parser", "Completed: refactor the parser"},
	}
	for _, tt := range tests {
		if got := c.TodoCompletion(tt.in); got != tt.want {
			t.Errorf("TodoCompletion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileAnnouncements(t *testing.T) {
	c := newComposer("", "")
	if got := c.ReadAnnouncement("/src/user_config.py"); got != "Reading user config python file" {
		t.Fatalf("ReadAnnouncement = %q", got)
	}
	if got := c.EditAnnouncement("/src/main.go"); got != "Editing main go file" {
		t.Fatalf("EditAnnouncement = %q", got)
	}
}

func TestCommandAnnouncementShortens(t *testing.T) {
	c := newComposer("", "")
	if got := c.CommandAnnouncement("ls"); got != "Running ls" {
		t.Fatalf("CommandAnnouncement(ls) = %q", got)
	}
	long := c.CommandAnnouncement("find . -name '*.go' | xargs grep -l TODO | head -20")
	if len(long) > len("Running ")+30 {
		t.Fatalf("long command not shortened: %q", long)
	}
	if !strings.HasSuffix(long, "...") {
		t.Fatalf("shortened command missing ellipsis: %q", long)
	}
}

func TestToolActionOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.ToolPhrases = map[string]string{"Bash": "Executing"}
	c := NewComposer(cfg)

	if phrase, ok := c.ToolAction("Bash"); !ok || phrase != "Executing" {
		t.Fatalf("ToolAction(Bash) = %q, %v; want config override", phrase, ok)
	}
	if phrase, ok := c.ToolAction("Read"); !ok || phrase != "Reading" {
		t.Fatalf("ToolAction(Read) = %q, %v", phrase, ok)
	}
	if _, ok := c.ToolAction("SomethingNew"); ok {
		t.Fatal("unknown tool must not be announceable")
	}
	if phrase, ok := c.ToolAction("TodoWrite"); !ok || phrase != "" {
		t.Fatalf("TodoWrite must be known but special, got %q, %v", phrase, ok)
	}
}

func TestTaskSummary(t *testing.T) {
	c := newComposer("", "")

	if got := c.TaskSummary(domain.SessionState{}); got != "" {
		t.Fatalf("empty session summary = %q, want \"\"", got)
	}

	st := domain.SessionState{ContextLog: domain.ContextLog{
		FilesCreated:    []string{"a.go"},
		FilesModified:   []string{"b.go", "c.go", "b.go"},
		CommandsRun:     []string{"go test"},
		OperationsCount: 5,
	}}
	got := c.TaskSummary(st)
	if !strings.Contains(got, "Created 1 file") {
		t.Fatalf("summary missing created count: %q", got)
	}
	if !strings.Contains(got, "Modified 2 files") {
		t.Fatalf("summary must dedupe modified files: %q", got)
	}
	if !strings.Contains(got, "Ran 1 command") {
		t.Fatalf("summary missing command count: %q", got)
	}
}

func TestCompletion(t *testing.T) {
	c := newComposer("Mark", "")

	if got := c.Completion(domain.SessionState{}, "All tests pass."); got != "Mark, All tests pass." {
		t.Fatalf("Completion with message = %q", got)
	}

	st := domain.SessionState{ContextLog: domain.ContextLog{
		CommandsRun:     []string{"make"},
		OperationsCount: 1,
	}}
	if got := c.Completion(st, ""); got != "Ran 1 command" {
		t.Fatalf("Completion summary fallback = %q", got)
	}

	if got := c.Completion(domain.SessionState{}, ""); got != "Done, Mark." {
		t.Fatalf("Completion bare fallback = %q", got)
	}
	if got := newComposer("", "").Completion(domain.SessionState{}, ""); got != "Done." {
		t.Fatalf("anonymous bare fallback = %q", got)
	}
}
