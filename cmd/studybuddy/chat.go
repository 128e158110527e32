package main

import (
	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/dgallion1/studybuddy/internal/simplify"
	"github.com/spf13/cobra"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	var planID, materialPath string

	cmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Ask the tutor a question about a plan's study guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.buildApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			seed := pipeline.State{PlanID: planID}
			if planID != "" || materialPath != "" {
				if seed, err = a.materialSeed(cmd.Context(), planID, materialPath); err != nil {
					return err
				}
			}
			if planID != "" {
				prior, err := a.store.RecentChat(cmd.Context(), planID, a.orch.HistoryLimit)
				if err != nil {
					a.log.Warn("chat history unavailable", "plan_id", planID, "error", err)
				}
				seed.PriorTurns = prior
			}
			seed.UserMessage = args[0]

			final := a.orch.Chat(cmd.Context(), seed)
			if planID != "" && pipeline.Status(final) == pipeline.StatusCompleted {
				if err := a.store.AppendChat(cmd.Context(), planID, newTurns(final.ChatHistory, seed.PriorTurns, a.orch.HistoryLimit)); err != nil {
					a.log.Error("chat not saved", "plan_id", planID, "error", err)
				}
			}
			return report(cmd, final, a.driver.Stats())
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan whose study guide and history to use")
	cmd.Flags().StringVar(&materialPath, "material", "", "File to use as study material")
	return cmd
}

// newTurns returns the messages a chat run added after the prior turns it
// was given. The tutor trims prior to limit before appending, as it does
// with Deps.HistoryLimit.
func newTurns(history, prior []simplify.ChatMessage, limit int) []simplify.ChatMessage {
	kept := len(prior)
	if limit > 0 {
		kept = min(kept, limit)
	}
	added := len(history) - kept
	if added <= 0 || added > len(history) {
		return nil
	}
	return history[len(history)-added:]
}
