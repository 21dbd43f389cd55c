package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quartzjer/vcon-info/internal/config"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

func newInspectCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show document metadata, parties, and envelope details",
		Long: `Inspect a vCon: envelope format, document metadata, enriched
parties, and the validation verdict in one view.

Examples:
  vcon-info inspect call.vcon.json
  vcon-info inspect -o json call.vcon.json`,
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
				return writeJSON(os.Stdout, result)
			}
			writeValidation(os.Stdout, result)
			writeCrypto(os.Stdout, result.Crypto)
			writeSummary(os.Stdout, result)
			writeParties(os.Stdout, result)
			return nil
		},
	}
	config.BindCommonFlags(cmd, v)
	return cmd
}
