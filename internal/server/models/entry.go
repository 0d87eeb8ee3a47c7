// Package models holds the server-side domain types and their column codecs.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type EntryType string

const (
	EntryTypeLab           EntryType = "AWS Lab"
	EntryTypeProject       EntryType = "Project"
	EntryTypeAlgorithmNote EntryType = "DSA"
	EntryTypeCertificate   EntryType = "Certificate"
)

// EntryTypes lists every entry type in display order.
var EntryTypes = []EntryType{EntryTypeLab, EntryTypeProject, EntryTypeAlgorithmNote, EntryTypeCertificate}

var entryTypeAliases = map[string]EntryType{
	"aws lab":        EntryTypeLab,
	"lab":            EntryTypeLab,
	"project":        EntryTypeProject,
	"dsa":            EntryTypeAlgorithmNote,
	"algorithm-note": EntryTypeAlgorithmNote,
	"algorithm note": EntryTypeAlgorithmNote,
	"certificate":    EntryTypeCertificate,
}

// ParseEntryType accepts the canonical names and a few aliases, case-insensitively.
func ParseEntryType(s string) (EntryType, bool) {
	t, ok := entryTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ParseVisibility returns public only for the exact string "public".
func ParseVisibility(s string) Visibility {
	if s == string(VisibilityPublic) {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

// Entry is one portfolio item. It belongs to exactly one account.
type Entry struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"-"`
	Type        EntryType  `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        Tags       `json:"tags"`
	Visibility  Visibility `json:"visibility"`
	Date        string     `json:"date"`
	Proofs      Proofs     `json:"proofs"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Proof is an attached evidence file. ContentType and Size are what the
// client declared; the stored object is not inspected.
type Proof struct {
	Key          string    `json:"key"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Tags is stored as a JSONB array.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal([]string(t))
	return string(b), err
}

func (t *Tags) Scan(src any) error {
	if err := scanJSON(src, t); err != nil {
		return err
	}
	if *t == nil {
		*t = Tags{}
	}
	return nil
}

// Proofs is stored as a JSONB array embedded in the entry row.
type Proofs []Proof

func (p Proofs) Value() (driver.Value, error) {
	if p == nil {
		p = Proofs{}
	}
	b, err := json.Marshal([]Proof(p))
	return string(b), err
}

func (p *Proofs) Scan(src any) error {
	if err := scanJSON(src, p); err != nil {
		return err
	}
	if *p == nil {
		*p = Proofs{}
	}
	return nil
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
