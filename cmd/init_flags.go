package cmd

import (
	"github.com/crytic/hypcheck/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command to cmd
func addInitFlags(cmd *cobra.Command) error {
	cmd.Flags().SortFlags = false

	cmd.Flags().String("out", "", "output path for the new project configuration file")
	cmd.Flags().Bool("force", false, "overwrite an existing configuration file without asking")
	cmd.Flags().String("binary", "", BinaryFlagDescription)

	// The generated configuration can target a project other than the DAO fixtures
	cmd.Flags().String("fixtures", "", "directory the source files are read from")
	cmd.Flags().StringSlice("files", []string{}, "source files to compile")
	cmd.Flags().String("source", "", "source file declaring the checked contract")
	cmd.Flags().String("contract", "", "name of the checked contract")
	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	if err := updateCompilerPath(cmd, projectConfig); err != nil {
		return err
	}
	return updateTargetFromFlags(cmd, &projectConfig.Check)
}
