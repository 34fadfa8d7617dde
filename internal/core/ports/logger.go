package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(err error)

	// SetVerbosity maps the number of -v flags to a log level.
	SetVerbosity(verbosity int)
	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)
}
