package exitcodes

const (
	// ExitCodeSuccess indicates the command completed and every check passed.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// Exit codes 2-5 are conventionally taken by shells and argument parsers, so they are skipped.

	// ExitCodeHandledError indicates an error that was already logged, such as an unreachable compiler or an
	// unreadable fixture. The top-level should not print it again.
	ExitCodeHandledError = 6

	// ExitCodeCheckFailed indicates that the compiler produced missing, empty or diverging bytecode.
	ExitCodeCheckFailed = 7
)
