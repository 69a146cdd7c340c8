package cmd

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	Tasks    string `mapstructure:"tasks" yaml:"tasks"`
	Output   string `mapstructure:"output" yaml:"output"`
	LogLevel string `mapstructure:"loglevel" yaml:"loglevel"`
	History  struct {
		GitLimit int `mapstructure:"git-limit" yaml:"git-limit"`
		SvnLimit int `mapstructure:"svn-limit" yaml:"svn-limit"`
	} `mapstructure:"history" yaml:"history"`
	Git struct {
		Binary  string `mapstructure:"binary" yaml:"binary"`
		Backend string `mapstructure:"backend" yaml:"backend"`
	} `mapstructure:"git" yaml:"git"`
	Svn struct {
		Binary string `mapstructure:"binary" yaml:"binary"`
	} `mapstructure:"svn" yaml:"svn"`
	VCS struct {
		// Encoding of VCS output, e.g. euc-kr. Empty is UTF-8.
		Encoding string `mapstructure:"encoding" yaml:"encoding"`
	} `mapstructure:"vcs" yaml:"vcs"`
	Stage struct {
		Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	} `mapstructure:"stage" yaml:"stage"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to inspect the configuration",
	Long: `Commands to inspect the easypatcher configuration.

Configuration is read from easypatcher.yaml in the current directory, $HOME/.easypatcher or /etc/easypatcher,
or from the file named by EASYPATCHER_CONFIG. Every key can be overridden by an environment variable,
e.g. EASYPATCHER_HISTORY_SVN_LIMIT=100.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
