package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/studybuddy/internal/chunker"
	"github.com/dgallion1/studybuddy/internal/simplify"
	"github.com/google/uuid"
)

// Deps are the collaborators and tunables of an Orchestrator. Cache may be nil.
type Deps struct {
	Extractor Extractor
	Model     Model
	Renderer  Renderer
	Publisher Publisher
	Calendar  Calendar
	Cache     ContentCache

	Chunking     chunker.Config
	QuizSize     int
	HistoryLimit int
	Location     *time.Location
	Now          func() time.Time
}

// Orchestrator runs the study plan, chat and quiz workflows. Each run owns
// its State; the Orchestrator itself holds no per-run data.
type Orchestrator struct {
	Deps
	log *slog.Logger
}

func New(log *slog.Logger, d Deps) *Orchestrator {
	if d.QuizSize <= 0 {
		d.QuizSize = simplify.DefaultQuizSize
	}
	if d.HistoryLimit <= 0 {
		d.HistoryLimit = simplify.TutorHistoryTurns
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Orchestrator{Deps: d, log: log}
}

type stage struct {
	name string
	run  func(context.Context, State) (Patch, error)
}

// StudyPlan runs research, compiler and scheduler in order. Every stage runs
// even when an earlier one failed; failures accumulate in State.Errors.
func (o *Orchestrator) StudyPlan(ctx context.Context, seed State) State {
	return o.run(ctx, "study_plan", seed,
		stage{"research", o.research},
		stage{"compiler", o.compile},
		stage{"scheduler", o.schedule},
	)
}

// Chat answers seed.UserMessage as the tutor.
func (o *Orchestrator) Chat(ctx context.Context, seed State) State {
	return o.run(ctx, "chat", seed, stage{"tutor", o.tutor})
}

// Quiz generates multiple-choice questions from the study material.
func (o *Orchestrator) Quiz(ctx context.Context, seed State) State {
	return o.run(ctx, "quiz", seed, stage{"quiz", o.quiz})
}

func (o *Orchestrator) run(ctx context.Context, workflow string, s State, stages ...stage) State {
	if s.PlanID == "" {
		s.PlanID = uuid.NewString()
	}
	log := o.log.With("workflow", workflow, "plan_id", s.PlanID, "user_id", s.UserID)
	log.Info("workflow started", "stages", len(stages))
	start := o.Now()

	for _, st := range stages {
		s = s.Apply(o.runStage(ctx, log, st, s))
	}

	log.Info("workflow finished",
		"status", Status(s),
		"step", s.CurrentStep,
		"errors", len(s.Errors),
		"elapsed", o.Now().Sub(start),
	)
	return s
}

// runStage converts every outcome of a stage, including a panic, into a Patch.
func (o *Orchestrator) runStage(ctx context.Context, log *slog.Logger, st stage, s State) (p Patch) {
	log = log.With("stage", st.name)
	defer func() {
		if r := recover(); r != nil {
			log.Error("stage panicked", "panic", r)
			p = failed(st.name, fmt.Errorf("panic: %v", r))
		}
	}()

	log.Info("stage started")
	patch, err := st.run(ctx, s)
	if err != nil {
		log.Error("stage failed", "error", err)
		return failed(st.name, err)
	}
	patch.Step = st.name + "_complete"
	patch.Err = ""
	log.Info("stage complete")
	return patch
}

func failed(name string, err error) Patch {
	return Patch{
		Step: name + "_failed",
		Err:  fmt.Sprintf("%s stage failed: %v", name, err),
	}
}
