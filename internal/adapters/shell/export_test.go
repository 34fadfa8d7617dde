package shell

// ExitCode exports exitCode for testing.
var ExitCode = exitCode

// Relayed exports relayed for testing.
var Relayed = relayed
