package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/apicontract/internal/fileutil"
)

// WriteFiles writes the generated files into outputDir, creating it when
// needed. File names are checked before anything is written.
func (r *GenerateResult) WriteFiles(outputDir string) error {
	for _, f := range r.Files {
		if f.Name == "" || filepath.Base(f.Name) != f.Name {
			return fmt.Errorf("generator: invalid file name %q", f.Name)
		}
	}

	if err := os.MkdirAll(outputDir, fileutil.DirMode); err != nil {
		return fmt.Errorf("generator: creating output directory: %w", err)
	}
	for _, f := range r.Files {
		if err := os.WriteFile(filepath.Join(outputDir, f.Name), f.Content, fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("generator: writing %s: %w", f.Name, err)
		}
	}
	return nil
}
