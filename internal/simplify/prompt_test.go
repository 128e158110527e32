package simplify

import (
	"strings"
	"testing"
	"time"
)

func TestSimplifyPrompt_ChunkHints(t *testing.T) {
	tests := []struct {
		name    string
		pos     *ChunkPosition
		want    []string
		notWant []string
	}{
		{
			name:    "whole text",
			pos:     nil,
			notWant: []string{"part ", "Previous parts", "final part"},
		},
		{
			name:    "first of three",
			pos:     &ChunkPosition{Index: 0, Total: 3},
			want:    []string{"part 1 of 3", "More content follows in subsequent parts."},
			notWant: []string{"Previous parts", "final part"},
		},
		{
			name:    "middle",
			pos:     &ChunkPosition{Index: 1, Total: 3},
			want:    []string{"part 2 of 3", "Previous parts have been processed. Maintain consistency.", "More content follows"},
			notWant: []string{"final part"},
		},
		{
			name:    "last",
			pos:     &ChunkPosition{Index: 2, Total: 3},
			want:    []string{"part 3 of 3", "Previous parts have been processed.", "This is the final part."},
			notWant: []string{"More content follows"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SimplifyPrompt("Mitochondria make ATP.", "Cells", Beginner, tt.pos)
			for _, w := range tt.want {
				if !strings.Contains(p, w) {
					t.Errorf("expected prompt to contain %q", w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(p, nw) {
					t.Errorf("expected prompt not to contain %q", nw)
				}
			}
			if !strings.Contains(p, "Mitochondria make ATP.") || !strings.Contains(p, "# Cells - Study Guide") {
				t.Error("expected content and guide heading in prompt")
			}
		})
	}
}

func TestTutorPrompt_HistoryAndTruncation(t *testing.T) {
	var history []ChatMessage
	for i := 0; i < 12; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history = append(history, ChatMessage{Role: role, Content: "turn" + string(rune('A'+i))})
	}
	ctx := strings.Repeat("x", TutorContextChars+100)

	p := TutorPrompt("What is osmosis?", ctx, history)
	if strings.Contains(p, "turnA") || strings.Contains(p, "turnB") {
		t.Error("expected only the last 10 turns")
	}
	if !strings.Contains(p, "Student: turnC") || !strings.Contains(p, "Tutor: turnL") {
		t.Error("expected recent turns labelled by speaker")
	}
	if strings.Contains(p, strings.Repeat("x", TutorContextChars+1)) {
		t.Error("expected study context to be truncated")
	}
	if !strings.Contains(TutorPrompt("hi", "", nil), "No previous conversation") {
		t.Error("expected placeholder for empty history")
	}
}

func TestQuizPrompt(t *testing.T) {
	p := QuizPrompt(strings.Repeat("y", QuizContextChars*2), 0)
	if !strings.Contains(p, "Write 5 multiple-choice questions") {
		t.Error("expected default quiz size")
	}
	if strings.Contains(p, strings.Repeat("y", QuizContextChars+1)) {
		t.Error("expected context truncated")
	}
}

func TestSchedulePrompt(t *testing.T) {
	p := SchedulePrompt("Cells", 7, Intermediate, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	for _, w := range []string{"Topic: Cells", "Duration: 7 days", "Difficulty Level: intermediate", "Current Date: 2026-01-15", `"timeOfDay"`} {
		if !strings.Contains(p, w) {
			t.Errorf("expected prompt to contain %q", w)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	if ParseDifficulty("advanced") != Advanced {
		t.Error("expected advanced")
	}
	if ParseDifficulty("expert") != Intermediate {
		t.Error("expected fallback to intermediate")
	}
}
