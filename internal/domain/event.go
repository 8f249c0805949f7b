package domain

// HookKind classifies the lifecycle moment a hook event describes.
type HookKind int

const (
	HookUnknown HookKind = iota
	HookSessionStart
	HookUserPromptSubmit
	HookPreToolUse
	HookPostToolUse
	HookStop
	HookNotification
	HookSubagentStop
	HookPreCompact
)

// String returns the wire name of the hook kind.
func (k HookKind) String() string {
	switch k {
	case HookSessionStart:
		return "SessionStart"
	case HookUserPromptSubmit:
		return "UserPromptSubmit"
	case HookPreToolUse:
		return "PreToolUse"
	case HookPostToolUse:
		return "PostToolUse"
	case HookStop:
		return "Stop"
	case HookNotification:
		return "Notification"
	case HookSubagentStop:
		return "SubagentStop"
	case HookPreCompact:
		return "PreCompact"
	default:
		return "Unknown"
	}
}

// hookNames maps wire names to HookKind values.
var hookNames = map[string]HookKind{
	"SessionStart":     HookSessionStart,
	"UserPromptSubmit": HookUserPromptSubmit,
	"PreToolUse":       HookPreToolUse,
	"PostToolUse":      HookPostToolUse,
	"Stop":             HookStop,
	"Notification":     HookNotification,
	"SubagentStop":     HookSubagentStop,
	"PreCompact":       HookPreCompact,
}

// HookKindFromString converts a wire name to a HookKind.
// Returns HookUnknown for unrecognized names.
func HookKindFromString(name string) HookKind {
	if k, ok := hookNames[name]; ok {
		return k
	}
	return HookUnknown
}

// Event is one parsed hook invocation from the host tool.
type Event struct {
	Kind           HookKind
	Tool           string // tool name, if any
	SessionID      string
	TranscriptPath string // append-only conversation log, if any
	Message        string // notification text (Notification hook)
	FilePath       string // tool_input.file_path, if any
	Command        string // tool_input.command, if any
	Query          string // tool_input.pattern / query, if any
	Todos          []Todo // tool_input.todos (TodoWrite), if any
	ToolOutput     string // flattened tool result (PostToolUse), if any
	Override       string // explicit --message text from the command line
}
