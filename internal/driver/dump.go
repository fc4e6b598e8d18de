package driver

import (
	"fmt"
	"os"

	"frel/internal/fir"
)

// Dump reads and decodes a .fir file.
func Dump(path string) (*fir.Program, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return nil, err
	}
	prog, err := fir.Decode(fir.Blob(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}
