// Package services holds the multi-step client flows built on the API client.
package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/proofolio/proofolio/internal/client/models"
	"github.com/proofolio/proofolio/internal/filex"
	"github.com/proofolio/proofolio/internal/netx"
)

// API is the part of client.Client the proof flows use.
type API interface {
	PresignUpload(ctx context.Context, r models.UploadRequest) (*models.UploadGrant, error)
	AttachProof(ctx context.Context, entryID string, p models.ProofInput) (*models.Entry, error)
	PublicEntry(ctx context.Context, handle, id string) (*models.PublicEntry, error)
}

type ProofService struct {
	api  API
	http *http.Client
}

// NewProofService uses hc for the direct transfers to object storage.
func NewProofService(api API, hc *http.Client) *ProofService {
	return &ProofService{api: api, http: hc}
}

// ContentTypeOf guesses the media type of a file from its extension, then
// from its first bytes.
func ContentTypeOf(name string, data []byte) string {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

// Attach uploads the file at path and attaches it to the entry: request a
// grant, PUT the bytes to storage, then record the proof.
func (s *ProofService) Attach(ctx context.Context, entryID, path string) (*models.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	ct := ContentTypeOf(name, data)

	grant, err := s.api.PresignUpload(ctx, models.UploadRequest{
		EntryID:     entryID,
		FileName:    name,
		ContentType: ct,
		Size:        int64(len(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, grant.UploadURL, ct, data); err != nil {
		return nil, err
	}

	e, err := s.api.AttachProof(ctx, entryID, models.ProofInput{
		Key:          grant.Key,
		ContentType:  ct,
		Size:         int64(len(data)),
		OriginalName: name,
	})
	if err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return e, nil
}

// Download saves every proof of a public entry into dir (relative to the
// working directory) and returns the written paths.
func (s *ProofService) Download(ctx context.Context, handle, entryID, dir string) ([]string, error) {
	pe, err := s.api.PublicEntry(ctx, handle, entryID)
	if err != nil {
		return nil, err
	}

	target, err := filex.EnsureSubDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(pe.ProofURLs))
	for _, p := range pe.ProofURLs {
		path := filepath.Join(target, filex.SanitizeName(filex.LastSegment(p.Key)))
		if err := s.save(ctx, p.URL, path); err != nil {
			return paths, fmt.Errorf("%s: %w", p.OriginalName, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *ProofService) save(ctx context.Context, url, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := netx.DownloadFromPresignedURL(ctx, s.http, url, f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
