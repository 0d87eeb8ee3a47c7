package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/proofolio/proofolio/internal/client/models"
)

const dateLayout = "2006-01-02"

// today is a test seam.
var today = func() string { return time.Now().Format(dateLayout) }

func (a *App) List(ctx context.Context, args []string) error {
	q, typ := parseFilter(args)
	entries, err := a.api.ListEntries(ctx, q, typ)
	if err != nil {
		return a.fail(err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries")
		return nil
	}
	for _, e := range entries {
		printSummary(a.out, e)
	}
	return nil
}

// Add prompts for every field of a new entry. Date defaults to today and
// visibility to private.
func (a *App) Add(ctx context.Context) error {
	d, err := a.promptDraft()
	if err != nil {
		return a.fail(err)
	}

	e, err := a.api.CreateEntry(ctx, d)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Created %s\n", e.ID)
	return nil
}

func (a *App) promptDraft() (models.EntryDraft, error) {
	var d models.EntryDraft
	var err error

	if d.Type, err = GetSimpleText(a.reader, "Type (AWS Lab, Project, DSA, Certificate)", a.out); err != nil {
		return d, err
	}
	if d.Title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
		return d, err
	}
	if d.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return d, err
	}

	tags, err := GetSimpleText(a.reader, "Tags (comma separated, optional)", a.out)
	if err != nil {
		return d, err
	}
	d.Tags = SplitTags(tags)

	if d.Date, err = GetSimpleText(a.reader, fmt.Sprintf("Date [%s]", today()), a.out); err != nil {
		return d, err
	}
	if d.Date == "" {
		d.Date = today()
	}

	vis, err := GetSimpleText(a.reader, "Make it public? (y/N)", a.out)
	if err != nil {
		return d, err
	}
	d.Visibility = "private"
	if strings.EqualFold(vis, "y") || strings.EqualFold(vis, "yes") {
		d.Visibility = "public"
	}
	return d, nil
}

func (a *App) Show(ctx context.Context, id string) error {
	e, err := a.api.GetEntry(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	printEntry(a.out, *e)
	return nil
}

// SetVisibility rewrites the entry with only its visibility changed.
func (a *App) SetVisibility(ctx context.Context, id, visibility string) error {
	e, err := a.api.GetEntry(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	d := e.Draft()
	d.Visibility = visibility
	if _, err := a.api.UpdateEntry(ctx, id, d); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Entry %s is now %s\n", id, visibility)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.api.DeleteEntry(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

func printSummary(w io.Writer, e models.Entry) {
	fmt.Fprintf(w, "%s  %s  [%s] %s (%s, %d proofs)\n", e.ID, e.Date, e.Type, e.Title, e.Visibility, len(e.Proofs))
}

func printEntry(w io.Writer, e models.Entry) {
	fmt.Fprintf(w, "ID:          %s\n", e.ID)
	fmt.Fprintf(w, "Type:        %s\n", e.Type)
	fmt.Fprintf(w, "Title:       %s\n", e.Title)
	fmt.Fprintf(w, "Date:        %s\n", e.Date)
	fmt.Fprintf(w, "Visibility:  %s\n", e.Visibility)
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "Tags:        %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Fprintf(w, "Description:\n%s\n", e.Description)
	for _, p := range e.Proofs {
		fmt.Fprintf(w, "  proof: %s (%s, %d bytes)\n", p.OriginalName, p.ContentType, p.Size)
	}
}
