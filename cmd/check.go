package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/crytic/hypcheck/cmd/exitcodes"
	"github.com/crytic/hypcheck/compilation/baseline"
	"github.com/crytic/hypcheck/config"
	"github.com/crytic/hypcheck/determinism"
	"github.com/crytic/hypcheck/logging"
	"github.com/crytic/hypcheck/logging/colors"
	"github.com/crytic/hypcheck/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// checkCmd represents the command provider for check
var checkCmd = &cobra.Command{
	Use:               "check",
	Short:             "Checks that the compiler emits identical bytecode across repeated compilations",
	Long:              `Compiles a fixed standard-JSON request repeatedly and fails on the first missing, empty or diverging bytecode`,
	Args:              cmdValidateCheckArgs,
	ValidArgsFunction: cmdValidCheckArgs,
	RunE:              cmdRunCheck,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the check command
	err := addCheckFlags(checkCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the check command", err)
	}

	// Add the check command and its associated flags to the root command
	rootCmd.AddCommand(checkCmd)
}

// cmdValidCheckArgs will return which flags are valid for dynamic completion for the check command
func cmdValidCheckArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateCheckArgs makes sure that there are no positional arguments provided to the check command
func cmdValidateCheckArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("check does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the check command", err)
		return err
	}
	return nil
}

// cmdRunCheck executes the CLI check command and navigates through the following possibilities:
// #1: We will search for either a custom config file (via --config) or the default (hypcheck.json).
// If we find it, read it. If we can't read it, throw an error.
// #2: If a custom file was provided (--config was used), and we can't find the file, throw an error.
// #3: If hypcheck.json can't be found, use the default project configuration.
func cmdRunCheck(cmd *cobra.Command, args []string) error {
	projectConfig, configPath, err := loadCheckProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the check command", err)
		return err
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithCheckFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the check command", err)
		return err
	}
	err = projectConfig.Validate()
	if err != nil {
		cmdLogger.Error("Invalid project configuration", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Paths in the project configuration are relative to the directory of the configuration file
	err = os.Chdir(filepath.Dir(configPath))
	if err != nil {
		cmdLogger.Error("Failed to run the check command", err)
		return err
	}

	logFile, err := setupGlobalLogger(projectConfig.Logging)
	if err != nil {
		cmdLogger.Error("Failed to set up logging", err)
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger := logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)

	// Stop checking on keyboard interrupts: the running compiler process is killed with the context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	entryPoint, compilerVersion, err := projectConfig.Compilation.ResolveCompiler(ctx)
	if err != nil {
		logger.Error("Failed to query the compiler", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// The sources are read once for every preset
	requests, err := projectConfig.Check.BuildRequests()
	if err != nil {
		logger.Error("Failed to build the compilation request", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	var store *baseline.Store
	if projectConfig.Check.BaselineDirectory != "" {
		store, err = baseline.OpenStore(projectConfig.Check.BaselineDirectory)
		if err != nil {
			logger.Error("Failed to open the baseline store", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		defer store.Close()
	}

	for _, presetRequest := range requests {
		checker, err := determinism.NewChecker(entryPoint, determinism.CheckerConfig{
			Request:          presetRequest.Request,
			Target:           projectConfig.Check.Target,
			Iterations:       projectConfig.Check.Iterations,
			CheckSourceOrder: projectConfig.Check.CheckSourceOrder,
			Timeout:          time.Duration(projectConfig.Check.Timeout) * time.Second,
		})
		if err != nil {
			logger.Error("Failed to create the determinism checker", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}

		report, checkErr := checker.Run(ctx)
		report.Platform = projectConfig.Compilation.Platform
		report.CompilerVersion = compilerVersion.String()
		report.Preset = string(presetRequest.Preset)

		if checkErr == nil && store != nil {
			checkErr = determinism.VerifyBaseline(store, presetRequest.Request, report, projectConfig.Check.UpdateBaseline)
			report.Passed = checkErr == nil
			if checkErr != nil {
				report.Failure = checkErr.Error()
			}
		}
		report.LogSummary(logger)

		if projectConfig.Check.ReportPath != "" {
			reportPath := presetReportPath(projectConfig.Check.ReportPath, report.Preset, len(requests))
			if err := report.WriteToFile(reportPath); err != nil {
				logger.Error("Failed to write the report", err)
				return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
			}
			logger.Info("Report written to: ", colors.Bold, reportPath, colors.Reset)
		}

		// The first failure ends the run
		if checkErr != nil {
			logger.Error("Determinism check failed", checkErr)
			if determinism.IsCheckFailure(checkErr) {
				return exitcodes.NewErrorWithExitCode(checkErr, exitcodes.ExitCodeCheckFailed)
			}
			return exitcodes.NewErrorWithExitCode(checkErr, exitcodes.ExitCodeHandledError)
		}
	}
	return nil
}

// loadCheckProjectConfig reads the project configuration from --config or the default file in the working directory,
// falling back to the default configuration when no file was requested and none exists. The path the configuration
// was (or would have been) read from is returned alongside it.
func loadCheckProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, string, error) {
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}

	// If --config was not used, look for `hypcheck.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Possibility #1: File was found
	_, existenceError := os.Stat(configPath)
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err := config.ReadProjectConfigFromFile(configPath, DefaultCompilationPlatform)
		return projectConfig, configPath, err
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed {
		return nil, "", existenceError
	}

	// Possibility #3: --config flag was not used and hypcheck.json was not found, so use the default project config
	cmdLogger.Warn(fmt.Sprintf("Unable to find the config file at %v, will use the default project configuration for the "+
		"%v compilation platform instead", configPath, DefaultCompilationPlatform))
	projectConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	return projectConfig, configPath, err
}

// setupGlobalLogger replaces logging.GlobalLogger with a logger writing to the console and, if a log directory is
// configured, to a structured log file. The log file is returned so that it can be closed.
func setupGlobalLogger(loggingConfig config.LoggingConfig) (*os.File, error) {
	if loggingConfig.NoColor {
		colors.DisableColor()
	}

	logging.GlobalLogger = logging.NewLogger(loggingConfig.Level)
	logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, !loggingConfig.NoColor)

	if loggingConfig.LogDirectory == "" {
		return nil, nil
	}
	if err := utils.MakeDirectory(loggingConfig.LogDirectory); err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("hypcheck-%s.log", time.Now().Format("2006-01-02-15-04-05"))
	logFile, err := os.Create(filepath.Join(loggingConfig.LogDirectory, fileName))
	if err != nil {
		return nil, err
	}
	logging.GlobalLogger.AddWriter(logFile, logging.STRUCTURED, false)
	return logFile, nil
}

// presetReportPath returns the report path for a preset. When several presets are checked, the preset name is inserted
// before the extension so that each run keeps its own report.
func presetReportPath(reportPath string, preset string, runs int) string {
	if runs < 2 || preset == "" {
		return reportPath
	}
	extension := filepath.Ext(reportPath)
	return fmt.Sprintf("%s-%s%s", reportPath[:len(reportPath)-len(extension)], preset, extension)
}
