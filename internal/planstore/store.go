// Package planstore persists finished workflow runs and tutoring history in
// Firestore.
package planstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"cloud.google.com/go/firestore"
	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/dgallion1/studybuddy/internal/simplify"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const DefaultCollection = "study_plans"

// Subcollections under each plan document.
const (
	messagesCollection = "messages"
	quizzesCollection  = "quizzes"
)

var ErrPlanNotFound = errors.New("plan not found")

// Store keeps one document per plan with chat and quiz subcollections.
type Store struct {
	client     *firestore.Client
	collection string
	log        *slog.Logger
}

func New(client *firestore.Client, collection string, log *slog.Logger) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{client: client, collection: collection, log: log}
}

func (s *Store) plan(planID string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(planID)
}

// SavePlan writes the terminal state of a study plan run, replacing any
// earlier record for the same plan.
func (s *Store) SavePlan(ctx context.Context, st pipeline.State) error {
	if st.PlanID == "" {
		return errors.New("save plan: plan id is required")
	}
	rec := recordFromState(st)
	if _, err := s.plan(st.PlanID).Set(ctx, rec); err != nil {
		return fmt.Errorf("save plan %s: %w", st.PlanID, err)
	}
	s.log.Info("plan saved", "plan_id", st.PlanID, "status", rec.Status)
	return nil
}

func (s *Store) LoadPlan(ctx context.Context, planID string) (PlanRecord, error) {
	snap, err := s.plan(planID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return PlanRecord{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	if err != nil {
		return PlanRecord{}, fmt.Errorf("load plan %s: %w", planID, err)
	}
	var rec PlanRecord
	if err := snap.DataTo(&rec); err != nil {
		return PlanRecord{}, fmt.Errorf("decode plan %s: %w", planID, err)
	}
	return rec, nil
}

// AppendChat stores new tutoring turns in order.
func (s *Store) AppendChat(ctx context.Context, planID string, msgs []simplify.ChatMessage) error {
	coll := s.plan(planID).Collection(messagesCollection)
	for _, m := range msgs {
		if _, _, err := coll.Add(ctx, m); err != nil {
			return fmt.Errorf("append chat to %s: %w", planID, err)
		}
	}
	return nil
}

// RecentChat returns up to limit of the latest turns, oldest first.
func (s *Store) RecentChat(ctx context.Context, planID string, limit int) ([]simplify.ChatMessage, error) {
	docs, err := s.plan(planID).Collection(messagesCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("load chat for %s: %w", planID, err)
	}
	msgs := make([]simplify.ChatMessage, 0, len(docs))
	for _, d := range docs {
		var m simplify.ChatMessage
		if err := d.DataTo(&m); err != nil {
			return nil, fmt.Errorf("decode chat message %s: %w", d.Ref.ID, err)
		}
		msgs = append(msgs, m)
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (s *Store) SaveQuiz(ctx context.Context, planID string, qs []simplify.QuizQuestion) (string, error) {
	ref, _, err := s.plan(planID).Collection(quizzesCollection).Add(ctx, quizFromQuestions(qs))
	if err != nil {
		return "", fmt.Errorf("save quiz for %s: %w", planID, err)
	}
	return ref.ID, nil
}
