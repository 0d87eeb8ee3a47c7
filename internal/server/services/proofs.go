package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/filex"
	"github.com/proofolio/proofolio/internal/server/models"
	"github.com/proofolio/proofolio/internal/server/repositories/repomanager"
)

const (
	MaxImageBytes = 10 << 20
	MaxPDFBytes   = 25 << 20

	// ProofPrefix is the key prefix of every proof object.
	ProofPrefix = "proofs/"

	defaultContentType = "application/octet-stream"
)

// Presigner issues time-limited URLs for single objects.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// UploadRequest asks for a grant to upload one proof file for an entry.
type UploadRequest struct {
	EntryID     string `json:"entryId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"fileType"`
	Size        int64  `json:"size"`
}

func (r UploadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EntryID, validation.Required),
		validation.Field(&r.FileName, validation.Required),
		validation.Field(&r.ContentType, validation.Required, validation.By(allowedContentType)),
		validation.Field(&r.Size, validation.Required, validation.Min(int64(1)), validation.By(sizeLimit(r.ContentType))),
	)
}

// UploadGrant is a presigned PUT for exactly one key.
type UploadGrant struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// ProofInput describes an uploaded object the client wants to attach.
type ProofInput struct {
	Key          string `json:"key"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	OriginalName string `json:"originalName"`
}

func (p ProofInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Key, validation.Required),
		validation.Field(&p.ContentType, validation.Required, validation.By(allowedContentType)),
		validation.Field(&p.Size, validation.Min(int64(0)), validation.By(sizeLimit(p.ContentType))),
		validation.Field(&p.OriginalName, validation.Required),
	)
}

// ProofURL is a proof of a public entry with a short-lived download URL.
type ProofURL struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func isPDF(contentType string) bool {
	return contentType == "application/pdf"
}

func allowedContentType(v any) error {
	s, _ := v.(string)
	if !isImage(s) && !isPDF(s) {
		return errors.New("only images and PDFs are allowed")
	}
	return nil
}

func sizeLimit(contentType string) validation.RuleFunc {
	return func(v any) error {
		n, _ := v.(int64)
		switch {
		case isImage(contentType) && n > MaxImageBytes:
			return fmt.Errorf("image too large (max %d MiB)", MaxImageBytes>>20)
		case isPDF(contentType) && n > MaxPDFBytes:
			return fmt.Errorf("PDF too large (max %d MiB)", MaxPDFBytes>>20)
		}
		return nil
	}
}

// proofDir is the key prefix reserved for the proofs of one entry.
func proofDir(ownerID, entryID string) string {
	return ProofPrefix + ownerID + "/" + entryID + "/"
}

// ProofService hands out upload and download grants and records attached
// proofs. Storage stays private; these grants are the only way to its bytes.
type ProofService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       Presigner
	uploadTTL   time.Duration
	downloadTTL time.Duration
	now         func() time.Time
	nonce       func() string
}

func NewProofService(db *sql.DB, m repomanager.RepositoryManager, store Presigner, uploadTTL, downloadTTL time.Duration) *ProofService {
	return &ProofService{
		db:          db,
		repomanager: m,
		store:       store,
		uploadTTL:   uploadTTL,
		downloadTTL: downloadTTL,
		now:         time.Now,
		nonce:       keyNonce,
	}
}

// keyNonce separates keys presigned in the same millisecond for the same name.
func keyNonce() string {
	return uuid.NewString()[:8]
}

// RequestUpload checks the declared file and the caller's ownership of the
// entry, then presigns a PUT for a fresh key under the entry's prefix.
func (s *ProofService) RequestUpload(ctx context.Context, ownerID string, req UploadRequest) (*UploadGrant, error) {
	req.EntryID = strings.TrimSpace(req.EntryID)
	req.ContentType = strings.TrimSpace(req.ContentType)
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	if err := checkID(req.EntryID); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Entries(s.db).GetByOwner(ctx, ownerID, req.EntryID); err != nil {
		return nil, storeError(err)
	}

	key := fmt.Sprintf("%s%d-%s-%s", proofDir(ownerID, req.EntryID), s.now().UnixMilli(), s.nonce(), filex.SanitizeName(req.FileName))

	url, err := s.store.PresignPut(ctx, key, req.ContentType, s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign put: %v", common.ErrorInternal, err)
	}

	return &UploadGrant{UploadURL: url, Key: key, ExpiresIn: int(s.uploadTTL.Seconds())}, nil
}

// Attach appends an uploaded object to the entry's proofs. The key must lie
// under the prefix RequestUpload used for this owner and entry.
func (s *ProofService) Attach(ctx context.Context, ownerID, entryID string, in ProofInput) (*models.Entry, error) {
	if err := checkID(entryID); err != nil {
		return nil, err
	}

	in.Key = strings.TrimSpace(in.Key)
	in.ContentType = strings.TrimSpace(in.ContentType)
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	dir := proofDir(ownerID, entryID)
	if !strings.HasPrefix(in.Key, dir) || len(in.Key) == len(dir) || strings.Contains(in.Key[len(dir):], "/") {
		return nil, fmt.Errorf("%w: key does not belong to this entry", common.ErrValidation)
	}

	proof := models.Proof{
		Key:          in.Key,
		OriginalName: in.OriginalName,
		ContentType:  in.ContentType,
		Size:         in.Size,
		UploadedAt:   s.now().UTC(),
	}

	e, err := s.repomanager.Entries(s.db).AppendProof(ctx, ownerID, entryID, proof)
	if err != nil {
		return nil, storeError(err)
	}
	return e, nil
}

// PresignPublicProofs issues a download URL for every proof of a public entry.
// Proofs without a key are skipped.
func (s *ProofService) PresignPublicProofs(ctx context.Context, e *models.Entry) ([]ProofURL, error) {
	if e == nil || e.Visibility != models.VisibilityPublic {
		return nil, common.ErrorNotFound
	}

	out := make([]ProofURL, 0, len(e.Proofs))
	for _, p := range e.Proofs {
		if p.Key == "" {
			continue
		}

		url, err := s.store.PresignGet(ctx, p.Key, s.downloadTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: presign get: %v", common.ErrorInternal, err)
		}

		name := p.OriginalName
		if name == "" {
			name = filex.LastSegment(p.Key)
		}
		contentType := p.ContentType
		if contentType == "" {
			contentType = defaultContentType
		}

		out = append(out, ProofURL{
			Key:          p.Key,
			URL:          url,
			OriginalName: name,
			ContentType:  contentType,
			Size:         p.Size,
			UploadedAt:   p.UploadedAt,
		})
	}
	return out, nil
}
