package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tara-vision/stackhat/internal/workspace"
)

var (
	cfgFile string
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "stackhat",
	Version: Version,
	Short:   "stackhat - terminal project architect",
	Long: `stackhat turns a description or a pile of code snippets into a virtual
project tree using an OpenAI-compatible LLM server, then lets you browse it,
inject more code and poke at it from a simulated terminal.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startREPL(cmd.Context())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stackhat/config.yaml)")
	flags.String("host", "", "LLM server URL (e.g., http://ollama.local:11434)")
	flags.String("key", "", "API key (optional for local servers)")
	flags.String("model", "", "model name (optional, auto-detected from server)")
	flags.String("vendor", "", "LLM vendor (auto, vllm, ollama, llama.cpp)")
	flags.Bool("no-spinner", false, "disable spinner animations")
	flags.String("data-dir", "", "directory for profile, autosave and logs (default is $HOME/.stackhat)")
	flags.String("log-level", "info", "diagnostic log level (debug, info, warn, error)")
	flags.String("log-format", "json", "diagnostic log format (json, console)")
	flags.Duration("timeout", workspace.DefaultGenerateTimeout, "time limit for a single architecture request")

	for key, flag := range map[string]string{
		"host":       "host",
		"key":        "key",
		"model":      "model",
		"vendor":     "vendor",
		"no_spinner": "no-spinner",
		"data_dir":   "data-dir",
		"log_level":  "log-level",
		"log_format": "log-format",
		"timeout":    "timeout",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		os.Exit(1)
	}
	configDir := filepath.Join(home, ".stackhat")
	viper.SetDefault("data_dir", configDir)
	viper.SetDefault("timeout", workspace.DefaultGenerateTimeout)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("STACKHAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// generateTimeout reads the timeout setting, which may come from a flag,
// the environment or the config file.
func generateTimeout() time.Duration {
	if d := viper.GetDuration("timeout"); d > 0 {
		return d
	}
	return workspace.DefaultGenerateTimeout
}
