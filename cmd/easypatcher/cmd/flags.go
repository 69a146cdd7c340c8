package cmd

import (
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		logLevel string
		cpuProf  string
	}
	task struct {
		name   string
		output string
	}
	project struct {
		path     string
		artifact string
		revision string
		limit    int
	}
	patch struct {
		selections []string
		all        bool
		yes        bool
		output     string
	}
	apply struct {
		bundle     string
		addTargets []string
		yes        bool
		dryRun     bool
	}
}

var easypatcherFlags = flagsT{}

const logLevelFlag = "loglevel"

func addLogLevelFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&easypatcherFlags.root.logLevel, logLevelFlag, "",
		"The logging level: none, error, warn, info or debug. Overrides the loglevel configuration key")
	return logLevelFlag
}

func addCPUProfFlag(cmd *cobra.Command) string {
	cpuProf := "cpuprof"
	cmd.PersistentFlags().StringVar(&easypatcherFlags.root.cpuProf, cpuProf, "", "Write a CPU profile of the command to this file")
	return cpuProf
}

func addTaskFlag(cmd *cobra.Command) string {
	task := "task"
	cmd.Flags().StringVar(&easypatcherFlags.task.name, task, "", "The name of the task")
	return task
}

func addTaskOutputFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVar(&easypatcherFlags.task.output, output, "",
		"The output directory of the task. Empty restores the configured default")
	return output
}

func addProjectPathFlag(cmd *cobra.Command) string {
	path := "path"
	cmd.Flags().StringVar(&easypatcherFlags.project.path, path, "", "The path to the working copy of the project")
	return path
}

func addArtifactFlag(cmd *cobra.Command) string {
	artifact := "artifact"
	cmd.Flags().StringVar(&easypatcherFlags.project.artifact, artifact, "",
		"The path to the build artifact of the project. Empty clears it")
	return artifact
}

func addRevisionFlag(cmd *cobra.Command) string {
	revision := "revision"
	cmd.Flags().StringVar(&easypatcherFlags.project.revision, revision, "",
		"A revision id. Lists the files changed by this revision instead of the history")
	return revision
}

func addLimitFlag(cmd *cobra.Command) string {
	limit := "limit"
	cmd.Flags().IntVar(&easypatcherFlags.project.limit, limit, 0,
		"The maximum number of revisions listed. Defaults to the history limit of the configuration")
	return limit
}

func addSelectFlag(cmd *cobra.Command) string {
	sel := "select"
	cmd.Flags().StringArrayVar(&easypatcherFlags.patch.selections, sel, nil,
		"Revisions to include for a project, as project=id[,id...]. The project is its path or name. Repeatable")
	return sel
}

func addAllFlag(cmd *cobra.Command) string {
	all := "all"
	cmd.Flags().BoolVar(&easypatcherFlags.patch.all, all, false,
		"Include the whole listed history of projects without a --select")
	return all
}

func addYesFlag(cmd *cobra.Command, target *bool, usage string) string {
	yes := "yes"
	cmd.Flags().BoolVarP(target, yes, "y", false, usage)
	return yes
}

func addPatchOutputFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVar(&easypatcherFlags.patch.output, output, "",
		"The output directory of the run. Defaults to the output of the task, then to the configured output")
	return output
}

func addBundleFlag(cmd *cobra.Command) string {
	bundle := "bundle"
	cmd.Flags().StringVar(&easypatcherFlags.apply.bundle, bundle, ".", "The bundle directory, holding manifest.json")
	return bundle
}

func addTargetFlag(cmd *cobra.Command) string {
	target := "add-target"
	cmd.Flags().StringArrayVar(&easypatcherFlags.apply.addTargets, target, nil,
		"Register a target root directory before applying. Repeatable")
	return target
}

func addDryRunFlag(cmd *cobra.Command) string {
	dryRun := "dry-run"
	cmd.Flags().BoolVar(&easypatcherFlags.apply.dryRun, dryRun, false,
		"Print the operations and diffs the apply would perform, without touching anything")
	return dryRun
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		err := cmd.MarkFlagRequired(flag)
		if err != nil {
			logFatalln(err)
		}
	}
}
