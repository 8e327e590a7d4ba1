package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"newsreel/internal/logging"
	"newsreel/internal/manifest"
	"newsreel/internal/pipeline"
	"newsreel/internal/search"
	"newsreel/internal/services"
	"newsreel/internal/telemetry"
)

func newCompileCommand(ctx *commandContext) *cobra.Command {
	var topic string
	var scenesPath string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Run the full compilation pipeline for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(topic) == "" {
				return fmt.Errorf("--topic is required")
			}
			scenes, err := pipeline.LoadScenes(scenesPath)
			if err != nil {
				return err
			}

			logger, err := logging.NewRunLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			archive, err := search.NewArchiveClient(cfg.Search.BaseURL)
			if err != nil {
				return fmt.Errorf("initialize search provider: %w", err)
			}
			searcher := search.NewMulti([]search.Provider{archive}, cfg.SearchTimeout(), logger)
			runner := pipeline.NewRunner(cfg, searcher, logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := runner.Run(runCtx, topic, scenes)
			if err != nil {
				if structured, ok := services.AsStructured(err); ok {
					payload, marshalErr := json.MarshalIndent(structured, "", "  ")
					if marshalErr == nil {
						fmt.Fprintln(cmd.OutOrStdout(), string(payload))
					}
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Compilation written to %s\n\n", result.ArtifactPath)
			fmt.Fprintln(out, renderRunSummary(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic query to search archival sources for")
	cmd.Flags().StringVarP(&scenesPath, "scenes", "s", "", "Scene script file, one beat per line")
	_ = cmd.MarkFlagRequired("scenes")
	return cmd
}

func renderRunSummary(result *pipeline.Result) string {
	var b strings.Builder

	rows := make([][]string, 0, len(result.Manifest.Assignments))
	for _, assignment := range result.Manifest.Assignments {
		if assignment.State != manifest.StateStreamValid {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(assignment.SceneIndex),
			truncate(assignment.SceneText, 40),
			assignment.Candidate.Identifier,
			truncate(assignment.Candidate.Title, 40),
		})
	}
	b.WriteString(renderTable(
		[]string{"Scene", "Beat", "Identifier", "Title"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
	b.WriteByte('\n')

	b.WriteString(fmt.Sprintf("\nCoverage: %d/%d scenes (%.0f%%)\n",
		result.Coverage.CoveredScenes, result.Coverage.TotalScenes, result.Coverage.Ratio()*100))
	b.WriteString(renderAttrition(result.Telemetry))
	return b.String()
}

func renderAttrition(records []telemetry.Record) string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Stage,
			strconv.Itoa(record.TotalBefore),
			strconv.Itoa(record.TotalAfter),
			strconv.Itoa(record.TotalDropped),
		})
	}
	return renderTable(
		[]string{"Stage", "Before", "After", "Dropped"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}
