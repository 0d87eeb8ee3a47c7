// Package client talks to the proofolio HTTP API. The session cookie lives in
// a cookie jar owned by the client, so a login carries over to every later
// call made through the same Client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/proofolio/proofolio/internal/client/models"
	"github.com/proofolio/proofolio/internal/common"
)

// ErrUnavailable means the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx answer. It unwraps to the matching common sentinel
// so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return common.ErrValidation
	case http.StatusUnauthorized:
		return common.ErrNotAuthenticated
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrConflict
	default:
		return common.ErrorInternal
	}
}

type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a Client for the server at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{base: u, http: &http.Client{Jar: jar, Timeout: timeout}}, nil
}

// HTTPClient is the underlying client. It is also fine for presigned URLs:
// the jar never sends the session cookie to another host.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	// path segments are already escaped by the callers
	target := c.base.String() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userEnvelope struct {
	User models.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

type entryEnvelope struct {
	Entry models.Entry `json:"entry"`
}

// ListEntries returns the caller's entries. q and typ may be empty.
func (c *Client) ListEntries(ctx context.Context, q, typ string) ([]models.Entry, error) {
	var out struct {
		Entries []models.Entry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/entries", filterQuery(q, typ), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) CreateEntry(ctx context.Context, d models.EntryDraft) (*models.Entry, error) {
	var out entryEnvelope
	if err := c.do(ctx, http.MethodPost, "/entries", nil, d, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

func (c *Client) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	var out entryEnvelope
	if err := c.do(ctx, http.MethodGet, "/entries/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id string, d models.EntryDraft) (*models.Entry, error) {
	var out entryEnvelope
	if err := c.do(ctx, http.MethodPut, "/entries/"+url.PathEscape(id), nil, d, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) PresignUpload(ctx context.Context, r models.UploadRequest) (*models.UploadGrant, error) {
	var out models.UploadGrant
	if err := c.do(ctx, http.MethodPost, "/uploads/presign", nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AttachProof(ctx context.Context, entryID string, p models.ProofInput) (*models.Entry, error) {
	var out entryEnvelope
	if err := c.do(ctx, http.MethodPost, "/entries/"+url.PathEscape(entryID)+"/proofs", nil, p, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

func (c *Client) PublicProfile(ctx context.Context, handle, q, typ string) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/public/"+url.PathEscape(handle), filterQuery(q, typ), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PublicEntry(ctx context.Context, handle, id string) (*models.PublicEntry, error) {
	var out models.PublicEntry
	path := "/public/" + url.PathEscape(handle) + "/entries/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func filterQuery(q, typ string) url.Values {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if typ != "" {
		v.Set("type", typ)
	}
	return v
}
