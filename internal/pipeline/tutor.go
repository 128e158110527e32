package pipeline

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dgallion1/studybuddy/internal/simplify"
)

func (o *Orchestrator) tutor(ctx context.Context, s State) (Patch, error) {
	if strings.TrimSpace(s.UserMessage) == "" {
		return Patch{}, errors.New("no user message provided")
	}
	if o.Model == nil {
		return Patch{}, errors.New("model is required")
	}

	material := studyContext(s)
	if material == "" {
		o.log.Warn("no study material context available", "plan_id", s.PlanID)
	}

	history := s.PriorTurns
	if len(history) > o.HistoryLimit {
		history = history[len(history)-o.HistoryLimit:]
	}

	answer, err := o.Model.Tutor(ctx, s.UserMessage, material, history)
	if err != nil {
		return Patch{}, err
	}

	// Stored history is ordered by timestamp alone, so the reply must sort
	// after its question at Firestore's microsecond precision.
	now := o.Now()
	chat := append(slices.Clone(history),
		simplify.ChatMessage{Role: simplify.RoleUser, Content: s.UserMessage, Timestamp: now},
		simplify.ChatMessage{Role: simplify.RoleAssistant, Content: answer, Timestamp: now.Add(time.Millisecond)},
	)
	return Patch{AssistantResponse: answer, ChatHistory: chat}, nil
}

func (o *Orchestrator) quiz(ctx context.Context, s State) (Patch, error) {
	material := studyContext(s)
	if material == "" {
		return Patch{}, errors.New("no study material available to generate quiz")
	}
	if o.Model == nil {
		return Patch{}, errors.New("model is required")
	}

	questions, err := o.Model.Quiz(ctx, material, o.QuizSize)
	if err != nil {
		return Patch{}, err
	}
	return Patch{QuizQuestions: questions}, nil
}
