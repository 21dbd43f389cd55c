// Package config provides the merged flag, environment, and file
// configuration for the vcon-info commands.
package config

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Validation    ValidationConfig    `mapstructure:"validation"`
	Fetch         FetchConfig         `mapstructure:"fetch"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxBodySize int64  `mapstructure:"max_body_size"`
}

type ValidationConfig struct {
	SupportedVersions []string `mapstructure:"supported_versions"`
	CurrentVersion    string   `mapstructure:"current_version"`
}

type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	MaxSize int64         `mapstructure:"max_size"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	MetricsAddr    string `mapstructure:"metrics_addr"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPProtocol   string `mapstructure:"otlp_protocol"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body_size", 16*1024*1024)

	v.SetDefault("validation.supported_versions", vcon.DefaultSupportedVersions)
	v.SetDefault("validation.current_version", vcon.CurrentVersion)

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.max_size", 64*1024*1024)

	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "text")
	v.SetDefault("observability.metrics_addr", ":9090")
	v.SetDefault("observability.otlp_endpoint", "")
	v.SetDefault("observability.otlp_protocol", "http")
	v.SetDefault("observability.service_name", "vcon-info")
	v.SetDefault("observability.service_version", "dev")
}

// BindCommonFlags binds the flags every command shares.
func BindCommonFlags(cmd *cobra.Command, v *viper.Viper) {
	f := cmd.Flags()
	f.String("config", "", "config file path")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-format", "", "log format (json, text)")

	_ = v.BindPFlag("observability.log_level", f.Lookup("log-level"))
	_ = v.BindPFlag("observability.log_format", f.Lookup("log-format"))
}

// BindServeFlags binds the serve command's flags.
func BindServeFlags(cmd *cobra.Command, v *viper.Viper) {
	BindCommonFlags(cmd, v)
	f := cmd.Flags()
	f.String("addr", "", "HTTP listen address")
	f.String("metrics-addr", "", "metrics HTTP listen address")

	_ = v.BindPFlag("server.addr", f.Lookup("addr"))
	_ = v.BindPFlag("observability.metrics_addr", f.Lookup("metrics-addr"))
}

// Load reads config from flags, env, and file, returning the merged Config.
func Load(v *viper.Viper, configFile string) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("VCON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("vcon-info")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vcon-info")
		v.AddConfigPath("/etc/vcon-info")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
