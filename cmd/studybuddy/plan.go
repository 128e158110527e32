package main

import (
	"errors"
	"strings"

	"github.com/dgallion1/studybuddy/internal/parser"
	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/dgallion1/studybuddy/internal/simplify"
	"github.com/spf13/cobra"
)

type planOptions struct {
	topic      string
	difficulty string
	days       int
	userID     string
	planID     string
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan [flags] FILE...",
		Short: "Build a study guide, publish it and schedule study sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]parser.File, 0, len(args))
			for _, path := range args {
				f, err := parser.DescribeFile(path)
				if err != nil {
					return err
				}
				files = append(files, f)
			}
			seed, err := planSeed(opts, files)
			if err != nil {
				return err
			}

			a, err := ctx.buildApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			final := a.orch.StudyPlan(cmd.Context(), seed)
			if err := a.store.SavePlan(cmd.Context(), final); err != nil {
				a.log.Error("plan not saved", "plan_id", final.PlanID, "error", err)
			}
			return report(cmd, final, a.driver.Stats())
		},
	}

	cmd.Flags().StringVar(&opts.topic, "topic", "", "Subject of the study plan")
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", string(simplify.Intermediate), "beginner, intermediate or advanced")
	cmd.Flags().IntVar(&opts.days, "days", 7, "Number of days to spread study sessions over")
	cmd.Flags().StringVar(&opts.userID, "user", "", "Student identifier")
	cmd.Flags().StringVar(&opts.planID, "plan-id", "", "Plan identifier (generated when empty)")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func planSeed(opts planOptions, files []parser.File) (pipeline.State, error) {
	topic := strings.TrimSpace(opts.topic)
	if topic == "" {
		return pipeline.State{}, errors.New("topic is required")
	}
	if opts.days <= 0 {
		return pipeline.State{}, errors.New("days must be at least 1")
	}
	return pipeline.State{
		UserID:       opts.userID,
		PlanID:       opts.planID,
		Materials:    files,
		Topic:        topic,
		Difficulty:   simplify.ParseDifficulty(strings.ToLower(strings.TrimSpace(opts.difficulty))),
		DurationDays: opts.days,
	}, nil
}
