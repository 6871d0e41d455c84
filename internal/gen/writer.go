package gen

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes every generated file into its package directory. Files
// of different packages are written concurrently.
func WriteFiles(ctx context.Context, files []GeneratedFile) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return writeFile(file)
		})
	}

	return g.Wait()
}

func writeFile(file GeneratedFile) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(file.Path(), file.Content, filePerm); err != nil {
		return fmt.Errorf("writing file %s: %w", file.Path(), err)
	}

	return nil
}
