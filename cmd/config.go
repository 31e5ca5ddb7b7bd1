package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the effective configuration: the config file merged over the
defaults, with VOICESHEET_* environment variables applied. API keys are masked.

voicesheet works without a config file. Run 'voicesheet config init' to write
a commented sample to the location below.

Configuration file location:
  ~/.config/voicesheet/config.toml              Linux
  ~/Library/Application Support/voicesheet/     macOS
  %APPDATA%\voicesheet\config.toml              Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig(flagsFrom(cmd))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file",
	Long:  `Write the default configuration to the config file location. An existing file is kept unless --force is given.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		initConfig(flagsFrom(cmd), force)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

// configPath returns --config or the per-user location
func configPath(f globalFlags) (string, bool) {
	if f.configPath != "" {
		return f.configPath, true
	}
	path, err := deps.ConfigPath()
	if err != nil {
		fail("Failed to determine config file location", err, "Check that your home directory is accessible")
		return "", false
	}
	return path, true
}

// showConfig displays the current effective configuration
func showConfig(f globalFlags) {
	path, ok := configPath(f)
	if !ok {
		return
	}

	fileExists := false
	if _, err := os.Stat(path); err == nil {
		fileExists = true
	}

	cfg, ok := loadConfig(f)
	if !ok {
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for voicesheet")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", path)
	if fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))

	if err := config.Encode(deps.Stdout, cfg.Redacted()); err != nil {
		fail("Failed to encode configuration", err, "")
		return
	}

	if !fileExists {
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'voicesheet config init' to create a config file at the above location.")
	}
}

// initConfig writes the sample config, refusing to replace an existing file without force
func initConfig(f globalFlags, force bool) {
	path, ok := configPath(f)
	if !ok {
		return
	}

	if _, err := os.Stat(path); err == nil && !force {
		fail("Config file already exists: "+path, nil, "Use --force to overwrite it")
		return
	}

	sample, err := config.GenerateSampleConfig()
	if err != nil {
		fail("Failed to generate sample config", err, "")
		return
	}

	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		fail("Failed to write config file", err, "Check that the directory exists and is writable")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Wrote sample config to %s\n", path)
}
