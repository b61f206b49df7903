package emit

import "github.com/GigaGaiaWorld/codex/internal/compile"

// Formatter formats a compiled program into a specific output format.
type Formatter interface {
	// Format converts the program to the output format.
	Format(program *compile.Program) ([]byte, error)

	// Name returns the formatter name.
	Name() string

	// ContentType returns the MIME content type.
	ContentType() string

	// FileExtension returns the typical file extension.
	FileExtension() string
}
