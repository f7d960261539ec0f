package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "hypcheck.json"

// DefaultCompilationPlatform describes the default compilation platform to use if one is not provided
const DefaultCompilationPlatform = "hypc"

// BinaryFlagDescription describes the --binary flag shared by the init and check commands
const BinaryFlagDescription = "path of the compiler to check: the hypc executable, or the hypc-js module for the hypcjs platform"
