package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/quartzjer/vcon-info/pkg/vcon/jose"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

// readInput returns the raw vCon text from the file argument, or stdin
// when the argument is absent or "-".
func readInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no input: pass a file argument or pipe a vCon to stdin")
	}
	return string(data), nil
}

// loadKeys reads the optional key files named by the persistent flags.
func loadKeys(v *viper.Viper) (pipeline.Keys, error) {
	keys := pipeline.Keys{}
	if path := v.GetString("private_key"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return keys, fmt.Errorf("read private key: %w", err)
		}
		key, err := jose.ParseKey(data)
		if err != nil {
			return keys, fmt.Errorf("parse private key: %w", err)
		}
		keys.Private = key
	}
	if path := v.GetString("public_key"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return keys, fmt.Errorf("read public key: %w", err)
		}
		key, err := jose.ParseKey(data)
		if err != nil {
			return keys, fmt.Errorf("parse public key: %w", err)
		}
		keys.Public = key
	}
	return keys, nil
}
