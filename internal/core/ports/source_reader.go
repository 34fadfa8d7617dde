package ports

// SourceReader reads the raw bytes of a script.
//
//go:generate go run go.uber.org/mock/mockgen -source=source_reader.go -destination=mocks/mock_source_reader.go -package=mocks
type SourceReader interface {
	// Read returns the contents of path, or of standard input when path is empty or "-".
	Read(path string) ([]byte, error)
}
