package cmd

import (
	"os"

	"github.com/crytic/hypcheck/logging"
	"github.com/crytic/hypcheck/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd represents the root CLI command object which all other commands stem from.
var rootCmd = &cobra.Command{
	Use:     "hypcheck",
	Version: version.GetInfo().Short(),
	Short:   "A compiler bytecode determinism checker",
	Long:    "hypcheck compiles a fixed standard-JSON request repeatedly and verifies that the compiler emits identical bytecode every time",
}

// cmdLogger is the logger that will be used for the cmd package
var cmdLogger = logging.NewLogger(zerolog.InfoLevel)

func init() {
	cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, true)
}

// Execute provides an exportable function to invoke the CLI. Returns an error if one was encountered.
func Execute() error {
	return rootCmd.Execute()
}
