package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crytic/hypcheck/cmd/exitcodes"
	"github.com/crytic/hypcheck/compilation"
	"github.com/crytic/hypcheck/config"
	"github.com/crytic/hypcheck/logging/colors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Get supported platforms for customized static completions of "init" flag `$ hypcheck init <tab> <tab>`
// and to cache supported platforms for CLI arguments validation
var supportedPlatforms = compilation.GetSupportedCompilationPlatforms()

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:               "init [platform]",
	Short:             "Initializes a project configuration",
	Long:              `Initializes a project configuration for the provided compilation platform (default ` + DefaultCompilationPlatform + `)`,
	Args:              cmdValidateInitArgs,
	ValidArgsFunction: cmdValidInitArgs,
	RunE:              cmdRunInit,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add flags to init command
	err := addInitFlags(initCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the init command", err)
	}

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdValidInitArgs will return which flags and sub-commands are valid for dynamic completion for the init command
func cmdValidInitArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string
	flagUsed := false
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		} else {
			flagUsed = true
		}
	})

	// Once a flag is used, the default platform is assumed, so platforms are only offered up front
	if len(args) == 0 && !flagUsed {
		unusedFlags = append(unusedFlags, supportedPlatforms...)
	}
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateInitArgs validates CLI arguments
func cmdValidateInitArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have no more than 1 arg
	if err := cobra.RangeArgs(0, 1)(cmd, args); err != nil {
		err = fmt.Errorf("init accepts at most 1 platform argument (options: %s). "+
			"default platform is %v", strings.Join(supportedPlatforms, ", "), DefaultCompilationPlatform)
		cmdLogger.Error("Failed to validate args to the init command", err)
		return err
	}

	// Ensure the optional provided argument refers to a supported platform
	if len(args) == 1 && !compilation.IsSupportedCompilationPlatform(args[0]) {
		err := fmt.Errorf("init was provided invalid platform argument '%s' (options: %s)", args[0], strings.Join(supportedPlatforms, ", "))
		cmdLogger.Error("Failed to validate args to the init command", err)
		return err
	}

	return nil
}

// cmdRunInit writes the default project configuration of the selected platform, updated with the init flags
func cmdRunInit(cmd *cobra.Command, args []string) error {
	outputPath, err := initOutputPath(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	platform := DefaultCompilationPlatform
	if len(args) == 1 {
		platform = args[0]
	}
	projectConfig, err := config.GetDefaultProjectConfig(platform)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	if err = updateProjectConfigWithInitFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	// A configuration that would fail the check command is not written
	if err = projectConfig.Validate(); err != nil {
		cmdLogger.Error("Invalid project configuration", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	overwrite, err := confirmOverwrite(cmd, outputPath)
	if err != nil {
		cmdLogger.Error("Failed to scan input", err)
		return err
	}
	if !overwrite {
		fmt.Fprintln(cmd.OutOrStdout(), "Operation canceled.")
		return nil
	}

	if err = projectConfig.WriteToFile(outputPath); err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	cmdLogger.Info("Project configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}

// initOutputPath returns the absolute path the configuration is written to: --out if it was used, otherwise
// hypcheck.json in the working directory.
func initOutputPath(cmd *cobra.Command) (string, error) {
	outputPath := DefaultProjectConfigFilename
	if cmd.Flags().Changed("out") {
		var err error
		if outputPath, err = cmd.Flags().GetString("out"); err != nil {
			return "", err
		}
	}
	return filepath.Abs(outputPath)
}

// confirmOverwrite reports whether outputPath may be written. Missing files and --force need no confirmation,
// otherwise the user is prompted.
func confirmOverwrite(cmd *cobra.Command, outputPath string) (bool, error) {
	if _, err := os.Stat(outputPath); err != nil {
		return true, nil
	}
	if force, err := cmd.Flags().GetBool("force"); err != nil || force {
		return force, err
	}

	fmt.Fprint(cmd.OutOrStdout(), "The file already exists. Overwrite? (y/n): ")
	var response string
	if _, err := fmt.Fscan(cmd.InOrStdin(), &response); err != nil {
		return false, err
	}
	return strings.EqualFold(response, "y"), nil
}
