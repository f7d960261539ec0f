package platforms

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/Masterminds/semver"
	"github.com/crytic/hypcheck/utils"
)

// HypcCompilationConfig describes the native `hypc` binary, driven through its --standard-json mode.
type HypcCompilationConfig struct {
	// BinaryPath is the path of the hypc executable. A bare name is looked up in PATH.
	BinaryPath string `json:"binaryPath"`

	// Args are extra command-line arguments, e.g. --base-path or --allow-paths.
	Args []string `json:"args,omitempty"`

	// WorkingDirectory is the directory hypc runs in. Empty uses the current directory.
	WorkingDirectory string `json:"workingDirectory,omitempty"`
}

// NewHypcCompilationConfig returns a HypcCompilationConfig for the provided binary.
func NewHypcCompilationConfig(binaryPath string) *HypcCompilationConfig {
	return &HypcCompilationConfig{
		BinaryPath: binaryPath,
		Args:       []string{},
	}
}

// Platform returns the platform identifier.
func (c *HypcCompilationConfig) Platform() string {
	return "hypc"
}

// GetCompilerPath returns the hypc binary path
func (c *HypcCompilationConfig) GetCompilerPath() string {
	return c.BinaryPath
}

// SetCompilerPath sets the hypc binary path
func (c *HypcCompilationConfig) SetCompilerPath(path string) {
	c.BinaryPath = path
}

// Version runs `hypc --version` and parses the version it reports.
func (c *HypcCompilationConfig) Version(ctx context.Context) (*semver.Version, error) {
	cmd := c.command(ctx, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("error while executing hypc:\nOUTPUT:\n%s\nERROR: %s\n", string(out), err.Error())
	}
	return ParseCompilerVersion(string(out))
}

// CompileStandardJSON writes the request to `hypc --standard-json` on stdin and returns its stdout. Compilation
// errors are reported inside the JSON response, so a non-zero exit status signals an invocation failure.
func (c *HypcCompilationConfig) CompileStandardJSON(ctx context.Context, input []byte) ([]byte, error) {
	args := append([]string{"--standard-json"}, c.Args...)
	cmd := c.command(ctx, args...)

	stdout, _, combined, err := utils.RunCommandWithInput(cmd, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("error while executing hypc:\n%s\n\nCommand Output:\n%s\n", err.Error(), string(combined))
	}
	return stdout, nil
}

// command creates the hypc command with the configured working directory.
func (c *HypcCompilationConfig) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.BinaryPath, args...)
	cmd.Dir = c.WorkingDirectory
	return cmd
}
