package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		b, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("failed to serialize config", err)
			return
		}
		_, _ = cmd.OutOrStdout().Write(b)
	},
}

func init() {
	configCmd.AddCommand(configDumpCmd)
}
