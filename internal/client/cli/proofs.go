package cli

import (
	"context"
	"fmt"
)

// Attach uploads the file at path and links it to the entry.
func (a *App) Attach(ctx context.Context, id, path string) error {
	e, err := a.proofs.Attach(ctx, id, path)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Attached %s, entry now has %d proofs\n", path, len(e.Proofs))
	return nil
}

// Download fetches the proofs of somebody's public entry into the configured
// download directory.
func (a *App) Download(ctx context.Context, handle, id string) error {
	paths, err := a.proofs.Download(ctx, handle, id, a.config.DownloadDir)
	for _, p := range paths {
		fmt.Fprintf(a.out, "Saved %s\n", p)
	}
	if err != nil {
		return a.fail(err)
	}
	if len(paths) == 0 {
		fmt.Fprintln(a.out, "No proofs attached")
	}
	return nil
}
