package cmd

import (
	"fmt"
	"strings"

	"github.com/crytic/hypcheck/compilation"
	"github.com/crytic/hypcheck/compilation/types"
	"github.com/crytic/hypcheck/config"
	"github.com/crytic/hypcheck/utils"
	"github.com/spf13/cobra"
)

// addCheckFlags adds the various flags for the check command to cmd
func addCheckFlags(cmd *cobra.Command) error {
	// Get the default project config and throw an error if we cant
	defaultConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	if err != nil {
		return err
	}

	// Prevent alphabetical sorting of usage message
	cmd.Flags().SortFlags = false

	// Config file
	cmd.Flags().String("config", "", "path to config file")

	// Compiler
	cmd.Flags().String("platform", "",
		fmt.Sprintf("compilation platform, one of %s (unless a config file is provided, default is %q)", strings.Join(supportedPlatforms, ", "), DefaultCompilationPlatform))
	cmd.Flags().String("binary", "", BinaryFlagDescription)

	// Sources
	cmd.Flags().String("fixtures", "",
		fmt.Sprintf("directory the source files are read from, relative to the config file directory (unless a config file is provided, default is %q)", defaultConfig.Check.FixturesDirectory))
	cmd.Flags().StringSlice("files", []string{},
		fmt.Sprintf("source files to compile (unless a config file is provided, default is %v)", defaultConfig.Check.Files))

	// Target
	cmd.Flags().String("source", "",
		fmt.Sprintf("source file declaring the checked contract (unless a config file is provided, default is %q)", defaultConfig.Check.Target.SourceFile))
	cmd.Flags().String("contract", "",
		fmt.Sprintf("name of the checked contract (unless a config file is provided, default is %q)", defaultConfig.Check.Target.ContractName))
	cmd.Flags().String("artifact", "",
		fmt.Sprintf("compared artifact, %q or %q (unless a config file is provided, default is %q)", types.ArtifactBytecode, types.ArtifactDeployedBytecode, defaultConfig.Check.Target.ArtifactKind))

	// Check behavior
	cmd.Flags().Int("iterations", 0,
		fmt.Sprintf("number of compilations, at least 2 (unless a config file is provided, default is %d)", defaultConfig.Check.Iterations))
	cmd.Flags().StringSlice("preset", []string{},
		fmt.Sprintf("settings preset(s) to check, one run each (options: %s)", strings.Join(compilation.SupportedPresets(), ", ")))
	cmd.Flags().Bool("source-order", false,
		fmt.Sprintf("also compile every rotation of the source order (unless a config file is provided, default is %t)", defaultConfig.Check.CheckSourceOrder))
	cmd.Flags().Int("timeout", 0,
		fmt.Sprintf("number of seconds a single compilation may take (unless a config file is provided, default is %d). 0 means that timeout is not enforced", defaultConfig.Check.Timeout))

	// Outputs
	cmd.Flags().String("baseline-dir", "", "directory of the baseline store used to compare bytecode across runs")
	cmd.Flags().Bool("update-baseline", false, "replace recorded baselines that differ instead of failing")
	cmd.Flags().String("report", "", "path of the JSON report to write")
	cmd.Flags().Bool("no-color", false, "disable colored terminal output")
	return nil
}

// updateProjectConfigWithCheckFlags will update the given projectConfig with any CLI arguments that were provided to
// the check command
func updateProjectConfigWithCheckFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// If --platform was used, switch to the default config of that platform
	if cmd.Flags().Changed("platform") {
		platform, err := cmd.Flags().GetString("platform")
		if err != nil {
			return err
		}
		if projectConfig.Compilation == nil || projectConfig.Compilation.Platform != platform {
			projectConfig.Compilation, err = compilation.NewCompilationConfig(platform)
			if err != nil {
				return err
			}
		}
	}

	if err = updateCompilerPath(cmd, projectConfig); err != nil {
		return err
	}

	if err = updateTargetFromFlags(cmd, &projectConfig.Check); err != nil {
		return err
	}

	if cmd.Flags().Changed("artifact") {
		artifact, err := cmd.Flags().GetString("artifact")
		if err != nil {
			return err
		}
		projectConfig.Check.Target.ArtifactKind = types.ArtifactKind(artifact)
	}

	if cmd.Flags().Changed("iterations") {
		projectConfig.Check.Iterations, err = cmd.Flags().GetInt("iterations")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("preset") {
		presets, err := cmd.Flags().GetStringSlice("preset")
		if err != nil {
			return err
		}
		projectConfig.Check.Presets = utils.SliceSelect(presets, func(preset string) compilation.SettingsPreset {
			return compilation.SettingsPreset(preset)
		})
	}

	if cmd.Flags().Changed("source-order") {
		projectConfig.Check.CheckSourceOrder, err = cmd.Flags().GetBool("source-order")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("timeout") {
		projectConfig.Check.Timeout, err = cmd.Flags().GetInt("timeout")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("baseline-dir") {
		projectConfig.Check.BaselineDirectory, err = cmd.Flags().GetString("baseline-dir")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("update-baseline") {
		projectConfig.Check.UpdateBaseline, err = cmd.Flags().GetBool("update-baseline")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("report") {
		projectConfig.Check.ReportPath, err = cmd.Flags().GetString("report")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}
	return nil
}

// updateTargetFromFlags updates the sources and target of checkConfig with the --fixtures, --files, --source and
// --contract flags, if they were used
func updateTargetFromFlags(cmd *cobra.Command, checkConfig *config.CheckConfig) error {
	var err error

	if cmd.Flags().Changed("fixtures") {
		checkConfig.FixturesDirectory, err = cmd.Flags().GetString("fixtures")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("files") {
		checkConfig.Files, err = cmd.Flags().GetStringSlice("files")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("source") {
		checkConfig.Target.SourceFile, err = cmd.Flags().GetString("source")
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("contract") {
		checkConfig.Target.ContractName, err = cmd.Flags().GetString("contract")
		if err != nil {
			return err
		}
	}

	return nil
}

// updateCompilerPath will update the compiler path in the projectConfig if the --binary flag is used in the command
func updateCompilerPath(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	if !cmd.Flags().Changed("binary") {
		return nil
	}

	binary, err := cmd.Flags().GetString("binary")
	if err != nil {
		return err
	}
	if projectConfig.Compilation == nil {
		return fmt.Errorf("cannot set the compiler path without a compilation platform")
	}
	return projectConfig.Compilation.SetCompilerPath(binary)
}
