package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quartzjer/vcon-info/internal/config"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a vCon and report every error and warning",
		Long: `Run the structural rule engine over a vCon document.

Reads from the file argument or stdin. Signed and encrypted envelopes are
unwrapped first when possible; supply --private-key to decrypt.

Examples:
  vcon-info validate call.vcon.json
  cat call.vcon.json | vcon-info validate
  vcon-info validate --private-key key.pem encrypted.json`,
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
				if err := writeJSON(os.Stdout, result); err != nil {
					return err
				}
			} else {
				writeValidation(os.Stdout, result)
				writeCrypto(os.Stdout, result.Crypto)
			}

			if !result.IsValid {
				return fmt.Errorf("validation failed with %d error(s)", len(result.Errors()))
			}
			return nil
		},
	}
	config.BindCommonFlags(cmd, v)
	return cmd
}
