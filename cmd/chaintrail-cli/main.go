package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chaintrail/chaintrail/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Build-time variables set via ldflags.
var (
	version   = "1.2.0"
	commit    = ""
	buildDate = ""
)

var (
	apiClient *client.Client
	flagURL   string
	flagKey   string
	flagFmt   string
)

const defaultURL = "http://localhost:3040"

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("chaintrail version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("chaintrail version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "chaintrail",
		Short:   "Chaintrail CLI — tamper-evident audit trails",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Chaintrail server URL (env: CHAINTRAIL_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key (env: CHAINTRAIL_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	rootCmd.AddCommand(newAppendCmd())
	rootCmd.AddCommand(newEntryCmd())
	rootCmd.AddCommand(newTrailCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("CHAINTRAIL_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("CHAINTRAIL_API_KEY")
	}

	// Try config file for any remaining defaults.
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	cfgPath := filepath.Join(home, ".chaintrail", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	resolvedURL := cfg.URL
	resolvedKey := cfg.APIKey
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolvedURL = p.URL
			}
			if p.APIKey != "" {
				resolvedKey = p.APIKey
			}
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagKey == "" && resolvedKey != "" {
		flagKey = resolvedKey
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
