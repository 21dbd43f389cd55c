package main

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quartzjer/vcon-info/internal/config"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

func newTimelineCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline [file]",
		Short: "Print the chronological event timeline of a vCon",
		Long: `Flatten the vCon's temporal facts (creation, dialog starts and
ends, party joins and drops, attachments) into one ordered timeline.

Examples:
  vcon-info timeline call.vcon.json
  vcon-info timeline -o json call.vcon.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			keys, err := loadKeys(v)
			if err != nil {
				return err
			}
			cfg, err := config.Load(v, v.GetString("config"))
			if err != nil {
				return err
			}

			pipe := pipeline.New(pipeline.WithVersions(
				cfg.Validation.SupportedVersions, cfg.Validation.CurrentVersion))
			result := pipe.Process(cmd.Context(), input, keys)

			if v.GetString("output") == "json" {
				return writeJSON(os.Stdout, result.Timeline)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Time", "Type", "Description"})
			for _, e := range result.Timeline {
				t.AppendRow(table.Row{
					e.Time.UTC().Format(time.RFC3339),
					e.Type,
					e.Description,
				})
			}
			t.Render()
			return nil
		},
	}
	config.BindCommonFlags(cmd, v)
	return cmd
}
