package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/dgallion1/studybuddy/internal/simplify"
	"github.com/spf13/cobra"
)

var errWorkflowFailed = errors.New("workflow failed")

// result is what every subcommand prints.
type result struct {
	Status string                 `json:"status"`
	State  pipeline.State         `json:"state"`
	Model  simplify.StatsSnapshot `json:"model_calls"`
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report prints the terminal state and turns a failed run into an error so
// the process exits non-zero.
func report(cmd *cobra.Command, s pipeline.State, stats *simplify.LLMStats) error {
	status := pipeline.Status(s)
	if s.Errors == nil {
		s.Errors = []string{}
	}
	if err := writeJSON(cmd, result{Status: status, State: s, Model: stats.Snapshot()}); err != nil {
		return err
	}
	if status == pipeline.StatusFailed {
		return fmt.Errorf("%w: %s", errWorkflowFailed, s.CurrentStep)
	}
	return nil
}
