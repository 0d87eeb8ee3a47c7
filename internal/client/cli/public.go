package cli

import (
	"context"
	"fmt"
)

var typeOrder = []string{"AWS Lab", "Project", "DSA", "Certificate"}

// Public prints a handle's portfolio: counts per type, then the entries
// matching the filter.
func (a *App) Public(ctx context.Context, handle string, args []string) error {
	q, typ := parseFilter(args)
	p, err := a.api.PublicProfile(ctx, handle, q, typ)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Portfolio of %s\n", p.User.Username)
	for _, t := range typeOrder {
		fmt.Fprintf(a.out, "  %s: %d\n", t, p.Counts[t])
	}
	for _, e := range p.Entries {
		printSummary(a.out, e)
	}
	return nil
}
