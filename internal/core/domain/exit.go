package domain

const (
	// ExitSuccess is the exit code of a successful process.
	ExitSuccess = 0

	// ExitIndeterminate is reported when a child terminated without a usable exit status.
	ExitIndeterminate = -1

	// ExitToolFailure is the exit code used when hashbang itself fails.
	ExitToolFailure = 1
)
