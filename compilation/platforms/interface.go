package platforms

import (
	"context"

	"github.com/Masterminds/semver"
)

// PlatformConfig describes the interface all compilation platform configs must implement. A platform config is the
// compilation entry point: it accepts a serialized standard-JSON request and returns the serialized response.
type PlatformConfig interface {
	// Platform returns the platform identifier.
	Platform() string

	// GetCompilerPath returns the path of the compiler the platform invokes.
	GetCompilerPath() string

	// SetCompilerPath updates the path of the compiler the platform invokes.
	SetCompilerPath(string)

	// Version queries the compiler for its version.
	Version(ctx context.Context) (*semver.Version, error)

	// CompileStandardJSON submits a standard-JSON request and returns the raw response.
	CompileStandardJSON(ctx context.Context, input []byte) ([]byte, error)
}
