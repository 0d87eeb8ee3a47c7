// Package models holds the client-side view of the server's JSON payloads.
package models

import "time"

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Handle string `json:"handle"`
}

type Proof struct {
	Key          string    `json:"key"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type Entry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Visibility  string    `json:"visibility"`
	Date        string    `json:"date"`
	Proofs      []Proof   `json:"proofs"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Draft converts e back into the writable fields, e.g. to flip visibility.
func (e *Entry) Draft() EntryDraft {
	return EntryDraft{
		Type:        e.Type,
		Title:       e.Title,
		Description: e.Description,
		Tags:        append([]string(nil), e.Tags...),
		Visibility:  e.Visibility,
		Date:        e.Date,
	}
}

// EntryDraft is the body of create and update requests.
type EntryDraft struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Visibility  string   `json:"visibility"`
	Date        string   `json:"date"`
}

type UploadRequest struct {
	EntryID     string `json:"entryId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"fileType"`
	Size        int64  `json:"size"`
}

type UploadGrant struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type ProofInput struct {
	Key          string `json:"key"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	OriginalName string `json:"originalName"`
}

type ProofURL struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Profile is a public portfolio page.
type Profile struct {
	User struct {
		Username string `json:"username"`
	} `json:"user"`
	Entries []Entry        `json:"entries"`
	Counts  map[string]int `json:"counts"`
}

type PublicEntry struct {
	Entry     Entry      `json:"entry"`
	ProofURLs []ProofURL `json:"proofUrls"`
}
