package platforms

import (
	"errors"
	"regexp"

	"github.com/Masterminds/semver"
)

// compilerVersionRegex captures a release version, an optional prerelease suffix and the commit of the build, e.g.
// "0.1.7+commit.3e9c9f6b" or "0.1.8-develop.2024.1.1+commit.abcdef01". The platform suffix that follows the commit is
// dropped. Builds of different commits yield different versions.
var compilerVersionRegex = regexp.MustCompile(`\d+\.\d+\.\d+(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?(\+commit\.[0-9A-Za-z]+)?`)

// ParseCompilerVersion extracts the compiler version from the output of a version query such as `hypc --version`.
func ParseCompilerVersion(output string) (*semver.Version, error) {
	versionStr := compilerVersionRegex.FindString(output)
	if versionStr == "" {
		return nil, errors.New("could not parse a compiler version from the version output")
	}
	return semver.NewVersion(versionStr)
}
