package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryDraft_CopiesWritableFields(t *testing.T) {
	e := &Entry{ID: "1", Type: "Project", Title: "T", Description: "D", Tags: []string{"a"}, Visibility: "private", Date: "2026-01-01"}

	d := e.Draft()
	d.Tags[0] = "changed"
	d.Visibility = "public"

	assert.Equal(t, EntryDraft{Type: "Project", Title: "T", Description: "D", Tags: []string{"changed"}, Visibility: "public", Date: "2026-01-01"}, d)
	assert.Equal(t, []string{"a"}, e.Tags)
	assert.Equal(t, "private", e.Visibility)
}
