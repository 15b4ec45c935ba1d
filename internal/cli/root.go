package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/selector"
)

// Version is the CLI release
const Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "studyprep",
	Short: "studyprep - scripted study assistant chat",
	Long: `studyprep answers study questions from a curated catalog of explanations.

Each question is classified into a subject (calculus, biology, physics, ...),
answered with a matching explanation, and sometimes followed by a note from a
subject verifier. Sessions can be run in the terminal, in batch, or served
over HTTP and WebSocket.

Answers are study aids. Check them against your textbook or teacher.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "studyprep %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.studyprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// initConfig layers defaults, the config file and STUDYPREP_* variables
func initConfig() {
	if err := setupViper(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	if verbose && viper.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setupViper loads model.DefaultConfig as the base layer so that every key is
// known to viper, then merges the user's file over it
func setupViper(v *viper.Viper, file string) error {
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}

	v.SetEnvPrefix("STUDYPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys omitted from the marshaled defaults need explicit bindings
	_ = v.BindEnv("llm.api_key", "STUDYPREP_LLM_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.base_url", "STUDYPREP_LLM_BASE_URL")
	_ = v.BindEnv("llm.http_proxy", "STUDYPREP_LLM_HTTP_PROXY")
	_ = v.BindEnv("llm.https_proxy", "STUDYPREP_LLM_HTTPS_PROXY")
	_ = v.BindEnv("llm.no_proxy", "STUDYPREP_LLM_NO_PROXY")

	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		file = filepath.Join(home, ".studyprep", "config.yaml")
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	v.SetConfigFile(file)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", file, err)
	}
	return nil
}

// loadConfig decodes the layered configuration
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig rejects values the chat cannot run with
func validateConfig(cfg *model.Config) error {
	if err := selector.ValidateThreshold(cfg.Chat.VerifyThreshold); err != nil {
		return fmt.Errorf("invalid chat.verify_threshold: %w", err)
	}
	if cfg.Chat.PrimaryDelay < 0 || cfg.Chat.VerifyDelay < 0 {
		return fmt.Errorf("invalid chat delays: must not be negative")
	}
	return nil
}

// bindFlags lets command flags override configuration keys. Flags are bound
// when their command runs so that commands sharing a key do not clash.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}
