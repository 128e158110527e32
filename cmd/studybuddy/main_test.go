package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/studybuddy/internal/parser"
	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/dgallion1/studybuddy/internal/simplify"
	"github.com/spf13/cobra"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"plan", "quiz", "chat"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected subcommand %q, got %v (%v)", name, cmd, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPlanSeed(t *testing.T) {
	files := []parser.File{{Path: "/tmp/a.txt", OriginalName: "a.txt", MIMEType: parser.MIMEText}}
	seed, err := planSeed(planOptions{topic: " Cells ", difficulty: "Advanced", days: 3, userID: "u1"}, files)
	if err != nil {
		t.Fatalf("planSeed: %v", err)
	}
	if seed.Topic != "Cells" || seed.Difficulty != simplify.Advanced || seed.DurationDays != 3 || len(seed.Materials) != 1 {
		t.Errorf("unexpected seed %+v", seed)
	}

	if seed, _ := planSeed(planOptions{topic: "x", difficulty: "expert", days: 1}, nil); seed.Difficulty != simplify.Intermediate {
		t.Errorf("unknown difficulty should default to intermediate, got %q", seed.Difficulty)
	}
	if _, err := planSeed(planOptions{topic: "  ", days: 1}, nil); err == nil {
		t.Error("expected error for blank topic")
	}
	if _, err := planSeed(planOptions{topic: "x", days: 0}, nil); err == nil {
		t.Error("expected error for zero days")
	}
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := report(cmd, pipeline.State{PlanID: "p", CurrentStep: "quiz_complete"}, nil); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	var got struct {
		Status string `json:"status"`
		State  struct {
			PlanID string   `json:"plan_id"`
			Errors []string `json:"errors"`
		} `json:"state"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Status != pipeline.StatusCompleted || got.State.PlanID != "p" || got.State.Errors == nil {
		t.Errorf("unexpected output %s", out.String())
	}

	out.Reset()
	failed := pipeline.State{CurrentStep: "tutor_failed", Errors: []string{"tutor stage failed: boom"}}
	err := report(cmd, failed, nil)
	if !errors.Is(err, errWorkflowFailed) {
		t.Fatalf("expected workflow failure, got %v", err)
	}
	if !strings.Contains(out.String(), `"status": "failed"`) {
		t.Errorf("expected failed status in output, got %s", out.String())
	}
}

func TestNewTurns(t *testing.T) {
	msg := func(c string) simplify.ChatMessage { return simplify.ChatMessage{Content: c} }
	prior := []simplify.ChatMessage{msg("q1"), msg("a1")}
	history := []simplify.ChatMessage{msg("q1"), msg("a1"), msg("q2"), msg("a2")}

	got := newTurns(history, prior, 10)
	if len(got) != 2 || got[0].Content != "q2" || got[1].Content != "a2" {
		t.Errorf("unexpected new turns %+v", got)
	}
	if got := newTurns(nil, prior, 10); got != nil {
		t.Errorf("expected nothing new, got %+v", got)
	}

	// With a limit of 1 the tutor kept only "a1" before appending.
	trimmed := []simplify.ChatMessage{msg("a1"), msg("q2"), msg("a2")}
	got = newTurns(trimmed, prior, 1)
	if len(got) != 2 || got[0].Content != "q2" {
		t.Errorf("unexpected new turns with limit 1: %+v", got)
	}
	long := []simplify.ChatMessage{msg("q0"), msg("a0"), msg("q1"), msg("a1")}
	got = newTurns(append(long[2:4:4], msg("q2"), msg("a2")), long, 2)
	if len(got) != 2 || got[1].Content != "a2" {
		t.Errorf("unexpected new turns with limit 2: %+v", got)
	}
}
