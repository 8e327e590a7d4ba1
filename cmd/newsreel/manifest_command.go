package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"newsreel/internal/manifest"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "manifest <run-dir>",
		Short:       "Show the persisted manifest of a previous run",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := manifest.Open(args[0])
			if err != nil {
				return fmt.Errorf("open manifest store: %w", err)
			}
			defer store.Close()

			m, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:      %s\n", m.RunID)
			fmt.Fprintf(out, "Query:    %s\n", m.Query)
			fmt.Fprintf(out, "Status:   %s\n", m.Status)
			fmt.Fprintf(out, "Coverage: %.0f%% of %d scenes\n", m.Coverage*100, m.TotalScenes)
			if m.ArtifactPath != "" {
				fmt.Fprintf(out, "Artifact: %s\n", m.ArtifactPath)
			}
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(m.Assignments))
			for _, assignment := range m.Assignments {
				detail := assignment.ClipPath
				if assignment.State == manifest.StateStreamInvalid {
					detail = assignment.FailureReason
				}
				rows = append(rows, []string{
					strconv.Itoa(assignment.SceneIndex),
					assignment.Candidate.Identifier,
					string(assignment.State),
					truncate(detail, 60),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Scene", "Identifier", "State", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
