// Package ports defines the core interfaces for the application.
package ports

import "context"

// Executor runs a built artifact as a child process.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run executes artifact with args in the caller's working directory and inherited
	// standard streams, forwarding interrupt and terminate signals to the child.
	//
	// It returns the normalized exit code of the child. A non-zero exit is not an error.
	Run(ctx context.Context, artifact string, args []string) (int, error)
}
