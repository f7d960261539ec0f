package compilation

import (
	"context"
	"os/exec"

	"github.com/Masterminds/semver"
	"github.com/crytic/hypcheck/compilation/platforms"
	"github.com/crytic/hypcheck/logging"
	"github.com/crytic/hypcheck/logging/colors"
)

// ResolveCompiler loads the platform config of c and queries the compiler for its version. The returned platform
// config is the compilation entry point.
func (c *CompilationConfig) ResolveCompiler(ctx context.Context) (platforms.PlatformConfig, *semver.Version, error) {
	logger := logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE)

	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return nil, nil, err
	}

	// Resolving the path up front gives a clearer error than a failed invocation
	if _, ok := platformConfig.(*platforms.HypcCompilationConfig); ok {
		if _, err := exec.LookPath(platformConfig.GetCompilerPath()); err != nil {
			return nil, nil, err
		}
	}

	version, err := platformConfig.Version(ctx)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Using ", colors.Bold, c.Platform, colors.Reset, " compiler ", colors.Bold, version.String(), colors.Reset,
		" (", platformConfig.GetCompilerPath(), ")")
	return platformConfig, version, nil
}
