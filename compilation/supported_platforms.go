package compilation

import (
	"fmt"

	"github.com/crytic/hypcheck/compilation/platforms"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// defaultPlatformConfigGenerator is a mapping of platform identifier to generator functions which can be used to create
// a default configuration for the given platform. Each platform which provides a generator in this mapping will be
// considered a supported compilation platform for a CompilationConfig. Items are populated in the init method.
var defaultPlatformConfigGenerator map[string]func() platforms.PlatformConfig

// init populates defaultPlatformConfigGenerator with the supported platforms.
func init() {
	generators := []func() platforms.PlatformConfig{
		func() platforms.PlatformConfig { return platforms.NewHypcCompilationConfig("hypc") },
		func() platforms.PlatformConfig { return platforms.NewHypcJSCompilationConfig("hypc") },
	}

	defaultPlatformConfigGenerator = make(map[string]func() platforms.PlatformConfig)
	for _, generator := range generators {
		platformId := generator().Platform()

		// Each platform should have a unique identifier.
		if _, platformIdExists := defaultPlatformConfigGenerator[platformId]; platformIdExists {
			panic(fmt.Errorf("the compilation platform '%s' is registered with more than one provider", platformId))
		}
		defaultPlatformConfigGenerator[platformId] = generator
	}
}

// GetSupportedCompilationPlatforms obtains a sorted list of the platform identifiers supported by this package.
func GetSupportedCompilationPlatforms() []string {
	platformIds := maps.Keys(defaultPlatformConfigGenerator)
	slices.Sort(platformIds)
	return platformIds
}

// IsSupportedCompilationPlatform returns a boolean status indicating if a platform identifier is supported within this
// package.
func IsSupportedCompilationPlatform(platform string) bool {
	_, ok := defaultPlatformConfigGenerator[platform]
	return ok
}

// GetDefaultPlatformConfig obtains a PlatformConfig from the default generator for the provided platform.
func GetDefaultPlatformConfig(platform string) platforms.PlatformConfig {
	return defaultPlatformConfigGenerator[platform]()
}
