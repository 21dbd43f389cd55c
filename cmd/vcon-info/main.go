package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "vcon-info",
		Short: "Inspect and validate vCon conversation containers",
	}

	rootCmd.PersistentFlags().String("private-key", "", "private key file (PEM or JWK) for JWE decryption")
	rootCmd.PersistentFlags().String("public-key", "", "public key file (PEM or JWK) for JWS verification")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format (text, json)")
	_ = v.BindPFlag("private_key", rootCmd.PersistentFlags().Lookup("private-key"))
	_ = v.BindPFlag("public_key", rootCmd.PersistentFlags().Lookup("public-key"))
	_ = v.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(newValidateCmd(v))
	rootCmd.AddCommand(newInspectCmd(v))
	rootCmd.AddCommand(newTimelineCmd(v))
	rootCmd.AddCommand(newVerifyCmd(v))
	rootCmd.AddCommand(newServeCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
