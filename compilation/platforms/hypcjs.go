package platforms

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/hypcheck/utils"
)

// hypcjsCompileScript reads a standard-JSON request from stdin and prints the binding's response. The module to
// require is passed as the first script argument.
const hypcjsCompileScript = `const hypc = require(process.argv[1]);
let input = '';
process.stdin.setEncoding('utf8');
process.stdin.on('data', (chunk) => { input += chunk; });
process.stdin.on('end', () => { process.stdout.write(hypc.compile(input)); });`

// hypcjsVersionScript prints the version reported by the binding.
const hypcjsVersionScript = `process.stdout.write(require(process.argv[1]).version());`

// HypcJSCompilationConfig describes the hypc-js JavaScript binding, driven through node.
type HypcJSCompilationConfig struct {
	// NodePath is the path of the node executable. A bare name is looked up in PATH.
	NodePath string `json:"nodePath"`

	// ModulePath is the package name or path of the hypc-js module to require.
	ModulePath string `json:"modulePath"`
}

// NewHypcJSCompilationConfig returns a HypcJSCompilationConfig for the provided module.
func NewHypcJSCompilationConfig(modulePath string) *HypcJSCompilationConfig {
	return &HypcJSCompilationConfig{
		NodePath:   "node",
		ModulePath: modulePath,
	}
}

// Platform returns the platform identifier.
func (c *HypcJSCompilationConfig) Platform() string {
	return "hypcjs"
}

// GetCompilerPath returns the hypc-js module path
func (c *HypcJSCompilationConfig) GetCompilerPath() string {
	return c.ModulePath
}

// SetCompilerPath sets the hypc-js module path
func (c *HypcJSCompilationConfig) SetCompilerPath(path string) {
	c.ModulePath = path
}

// Version asks the binding for its version and parses it.
func (c *HypcJSCompilationConfig) Version(ctx context.Context) (*semver.Version, error) {
	cmd, err := c.command(ctx, hypcjsVersionScript)
	if err != nil {
		return nil, err
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("error while executing hypc-js:\nOUTPUT:\n%s\nERROR: %s\n", string(out), err.Error())
	}
	return ParseCompilerVersion(string(out))
}

// CompileStandardJSON passes the request to the binding's compile function and returns its response.
func (c *HypcJSCompilationConfig) CompileStandardJSON(ctx context.Context, input []byte) ([]byte, error) {
	cmd, err := c.command(ctx, hypcjsCompileScript)
	if err != nil {
		return nil, err
	}

	stdout, _, combined, err := utils.RunCommandWithInput(cmd, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("error while executing hypc-js:\n%s\n\nCommand Output:\n%s\n", err.Error(), string(combined))
	}
	return stdout, nil
}

// command creates a node command evaluating script with the resolved module path as its argument.
func (c *HypcJSCompilationConfig) command(ctx context.Context, script string) (*exec.Cmd, error) {
	modulePath, err := resolveModulePath(c.ModulePath)
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, c.NodePath, "-e", script, modulePath), nil
}

// resolveModulePath makes relative module paths absolute, since require resolves them against the script location
// rather than the working directory. Absolute paths and package names are returned unchanged.
func resolveModulePath(modulePath string) (string, error) {
	if modulePath == "" {
		return "", fmt.Errorf("no hypc-js module path was provided")
	}
	if strings.HasPrefix(modulePath, ".") {
		return filepath.Abs(modulePath)
	}
	return modulePath, nil
}
