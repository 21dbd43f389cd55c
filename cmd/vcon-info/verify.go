package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quartzjer/vcon-info/internal/config"
	"github.com/quartzjer/vcon-info/pkg/vcon/hashverify"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

func newVerifyCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Fetch and verify externally referenced content hashes",
		Long: `Collect every url/content_hash pair in the vCon, fetch each URL,
and check the content against all attested hashes. A single mismatched
hash fails that resource.

Examples:
  vcon-info verify call.vcon.json
  vcon-info verify --timeout 10s call.vcon.json`,
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
			if timeout := v.GetDuration("timeout"); timeout > 0 {
				cfg.Fetch.Timeout = timeout
			}

			fetcher := hashverify.NewHTTPFetcher(cfg.Fetch.Timeout)
			fetcher.MaxSize = cfg.Fetch.MaxSize
			pipe := pipeline.New(
				pipeline.WithVersions(cfg.Validation.SupportedVersions, cfg.Validation.CurrentVersion),
				pipeline.WithFetcher(fetcher),
			)

			result := pipe.Process(cmd.Context(), input, keys)
			if len(result.ExternalFiles) == 0 {
				fmt.Println("No external content to verify.")
				return nil
			}

			fetches, err := pipe.VerifyExternalFiles(cmd.Context(), result.ExternalFiles)
			if err != nil {
				return err
			}
			result.FetchResults = fetches

			if v.GetString("output") == "json" {
				return writeJSON(os.Stdout, fetches)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Source", "URL", "Result"})
			failed := 0
			for i, f := range fetches {
				status := "ok"
				if !f.Success {
					failed++
					status = "FAILED: " + f.Error
				}
				t.AppendRow(table.Row{result.ExternalFiles[i].Source, f.URL, status})
			}
			t.Render()

			if failed > 0 {
				return fmt.Errorf("%d of %d resources failed verification", failed, len(fetches))
			}
			return nil
		},
	}
	cmd.Flags().Duration("timeout", 0, "fetch timeout per resource")
	config.BindCommonFlags(cmd, v)
	return cmd
}
