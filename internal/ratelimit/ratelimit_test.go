package ratelimit

import (
	"testing"
	"time"

	"github.com/markhilton/claude-code-voice-handler/internal/domain"
)

func TestAllow(t *testing.T) {
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	st := domain.SessionState{
		ToolLastAnnouncedAt: map[string]time.Time{
			"Edit": base,
		},
	}

	tests := []struct {
		name string
		tool string
		cat  Category
		at   time.Time
		want bool
	}{
		{"same tool too soon", "Edit", CategoryActivity, base.Add(time.Second), false},
		{"same tool after interval", "Edit", CategoryActivity, base.Add(4 * time.Second), true},
		{"same tool at exact interval", "Edit", CategoryActivity, base.Add(DefaultInterval), true},
		{"different tool immediately", "Bash", CategoryActivity, base.Add(100 * time.Millisecond), true},
		{"completion bypasses limiter", "Edit", CategoryCompletion, base.Add(100 * time.Millisecond), true},
		{"approval bypasses limiter", "Edit", CategoryApproval, base.Add(100 * time.Millisecond), true},
		{"never-announced tool", "Grep", CategoryActivity, base, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allow(tt.tool, tt.cat, st, tt.at, DefaultInterval); got != tt.want {
				t.Fatalf("Allow(%s, %d) = %v, want %v", tt.tool, tt.cat, got, tt.want)
			}
		})
	}
}

func TestAllowEmptyState(t *testing.T) {
	if !Allow("Edit", CategoryActivity, domain.SessionState{}, time.Now(), DefaultInterval) {
		t.Fatal("first ever announcement must be allowed")
	}
}
