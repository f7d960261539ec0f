package logging

// These constants identify the services that log through a sub-logger keyed by "module"
const (
	// COMPILATION_SERVICE identifies the compilation package
	COMPILATION_SERVICE = "compilation"
	// DETERMINISM_SERVICE identifies the determinism package
	DETERMINISM_SERVICE = "determinism"
	// BASELINE_SERVICE identifies the baseline store
	BASELINE_SERVICE = "baseline"
	// CLI_SERVICE identifies the cmd package
	CLI_SERVICE = "cli"
)
