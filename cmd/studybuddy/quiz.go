package main

import (
	"context"
	"errors"

	"github.com/dgallion1/studybuddy/internal/parser"
	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/spf13/cobra"
)

func newQuizCommand(ctx *commandContext) *cobra.Command {
	var planID, materialPath string

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate multiple-choice questions from a plan's study guide or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if planID == "" && materialPath == "" {
				return errors.New("one of --plan or --material is required")
			}
			a, err := ctx.buildApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			seed, err := a.materialSeed(cmd.Context(), planID, materialPath)
			if err != nil {
				return err
			}

			final := a.orch.Quiz(cmd.Context(), seed)
			if planID != "" && pipeline.Status(final) == pipeline.StatusCompleted {
				if id, err := a.store.SaveQuiz(cmd.Context(), planID, final.QuizQuestions); err != nil {
					a.log.Error("quiz not saved", "plan_id", planID, "error", err)
				} else {
					a.log.Info("quiz saved", "plan_id", planID, "quiz_id", id)
				}
			}
			return report(cmd, final, a.driver.Stats())
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan whose study guide to quiz on")
	cmd.Flags().StringVar(&materialPath, "material", "", "File to quiz on instead of a stored study guide")
	return cmd
}

// materialSeed builds the starting state for chat and quiz runs: a file's
// text when path is set, otherwise the stored plan's study guide.
func (a *app) materialSeed(ctx context.Context, planID, path string) (pipeline.State, error) {
	seed := pipeline.State{PlanID: planID}
	if path != "" {
		f, err := parser.DescribeFile(path)
		if err != nil {
			return seed, err
		}
		text, err := a.extractor.ExtractOne(ctx, f.Path, f.MIMEType)
		if err != nil {
			return seed, err
		}
		seed.StudyMaterial = text
		return seed, nil
	}

	rec, err := a.store.LoadPlan(ctx, planID)
	if err != nil {
		return seed, err
	}
	seed.UserID = rec.UserID
	seed.Topic = rec.Topic
	seed.StudyMaterial = rec.SimplifiedContent
	return seed, nil
}
