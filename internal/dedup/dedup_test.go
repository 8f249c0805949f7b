package dedup

import (
	"testing"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello world"},
		{"  Hello   World  ", "hello world"},
		{"HELLO\tWORLD\n", "hello world"},
		{"already normal", "already normal"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDigestIgnoresCaseAndWhitespace(t *testing.T) {
	if Digest("Editing main.go") != Digest("editing   MAIN.GO") {
		t.Fatal("digests of equivalent texts differ")
	}
	if Digest("Editing main.go") == Digest("Editing other.go") {
		t.Fatal("digests of different texts collide")
	}
}

func TestIsDuplicate(t *testing.T) {
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	spoken := domain.SessionState{
		LastSpokenText: "Editing main.go",
		LastSpokenHash: Digest("Editing main.go"),
		LastSpokenAt:   base,
	}

	tests := []struct {
		name      string
		candidate string
		st        domain.SessionState
		at        time.Time
		want      bool
	}{
		{"exact repeat inside window", "Editing main.go", spoken, base.Add(2 * time.Second), true},
		{"normalized repeat inside window", "editing   MAIN.GO", spoken, base.Add(2 * time.Second), true},
		{"repeat after window", "Editing main.go", spoken, base.Add(6 * time.Second), false},
		{"repeat at exact window edge", "Editing main.go", spoken, base.Add(DefaultWindow), false},
		{"different text inside window", "Running tests", spoken, base.Add(time.Second), false},
		{"empty candidate", "", spoken, base.Add(time.Second), false},
		{"nothing spoken yet", "Editing main.go", domain.SessionState{}, base, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(tt.candidate, tt.st, tt.at, DefaultWindow); got != tt.want {
				t.Fatalf("IsDuplicate(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestWindowAnchorsToLastSpoken(t *testing.T) {
	// Suppressed candidates must not extend the window: only speaking
	// moves LastSpokenAt, so a candidate 6s after the last delivery is
	// allowed no matter how many duplicates arrived in between.
	base := time.Now()
	st := domain.SessionState{
		LastSpokenText: "On it.",
		LastSpokenHash: Digest("On it."),
		LastSpokenAt:   base,
	}

	if !IsDuplicate("On it.", st, base.Add(3*time.Second), DefaultWindow) {
		t.Fatal("repeat at +3s should be suppressed")
	}
	// The +3s suppression did not touch state; +6s is clear.
	if IsDuplicate("On it.", st, base.Add(6*time.Second), DefaultWindow) {
		t.Fatal("repeat at +6s should be allowed")
	}
}
