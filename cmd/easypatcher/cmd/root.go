package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/easypatcher/easypatcher/internal"
	"github.com/easypatcher/easypatcher/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "easypatcher",
	Short: "easypatcher builds file-level patches from VCS history",
	Long: `easypatcher builds file-level patches from the history of git and svn working copies.

Projects are grouped into tasks. For each project of a task, the operator picks
revisions; their changed files are merged, bundled with the build artifact of the
project, and shipped with an apply.sh script that backs up every affected file on
the target before overwriting it.

Without a subcommand, easypatcher starts the interactive menu.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := config.LogLevel
		if cmd.Flags().Changed(logLevelFlag) {
			level = easypatcherFlags.root.logLevel
		}
		l, err := dlogger.GetLogger(level)
		if err != nil {
			wrapFatalln("invalid log level", err)
			return
		}
		appLogger = l

		if easypatcherFlags.root.cpuProf != "" {
			stop, err := internal.StartCPUProfile(easypatcherFlags.root.cpuProf, appLogger)
			if err != nil {
				wrapFatalln("cannot start cpu profiling", err)
				return
			}
			stopProfile = stop
		}
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopProfile != nil {
			stopProfile()
			stopProfile = nil
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		runMenu(cmd)
	},
}

var (
	config      *CLIConfig
	appLogger   = zap.NewNop()
	stopProfile func()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
	addCPUProfFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("tasks", "tasks.yaml")
	viper.SetDefault("output", "patches")
	viper.SetDefault("loglevel", "error")
	viper.SetDefault("history.git-limit", 0)
	viper.SetDefault("history.svn-limit", 50)
	viper.SetDefault("git.binary", "git")
	viper.SetDefault("git.backend", "exec")
	viper.SetDefault("svn.binary", "svn")
	viper.SetDefault("vcs.encoding", "")
	viper.SetDefault("stage.extensions", []string{".war", ".zip", ".jar", ".ear"})

	if os.Getenv("EASYPATCHER_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("EASYPATCHER_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.easypatcher")
		viper.AddConfigPath("/etc/easypatcher")
		viper.SetConfigName("easypatcher")
	}

	viper.SetEnvPrefix("EASYPATCHER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
}

// newContext is canceled on SIGINT or SIGTERM
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
