package parser

import "fmt"

// UnsupportedFormatError is returned when a filename extension is not one of the
// recognized formats. It is raised before any file I/O.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported format: file has no extension"
	}
	return fmt.Sprintf("unsupported format: %q", e.Extension)
}

// FormatExtractionError wraps a failure of the underlying format library.
type FormatExtractionError struct {
	Format string
	Path   string
	Cause  error
}

func (e *FormatExtractionError) Error() string {
	return fmt.Sprintf("extract %s from %s: %v", e.Format, e.Path, e.Cause)
}

func (e *FormatExtractionError) Unwrap() error { return e.Cause }

// MissingDependencyError means the extension is recognized but no extractor for it
// is registered on the Parser. It is a configuration error, not a parse error.
type MissingDependencyError struct {
	Extension  string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("no %s extractor registered for %q", e.Dependency, e.Extension)
}
