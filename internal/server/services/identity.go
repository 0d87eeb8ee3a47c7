package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/server/models"
	"github.com/proofolio/proofolio/internal/server/repositories/accounts"
)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HandleOf returns the public handle of an email: its local part.
func HandleOf(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	return local
}

// PathSafeHandle reports whether handle is usable as a URL path segment without
// escaping: RFC 3986 unreserved characters and sub-delims only.
func PathSafeHandle(handle string) bool {
	if handle == "" {
		return false
	}
	for _, r := range handle {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-._~!$&'()*+,;=", r):
		default:
			return false
		}
	}
	return true
}

// resolveHandle finds the account owning handle by exact match on the
// stored handle column.
func resolveHandle(ctx context.Context, repo accounts.Repository, handle string) (*models.Account, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	if handle == "" || strings.Contains(handle, "@") {
		return nil, common.ErrorNotFound
	}

	account, err := repo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, storeError(err)
	}
	return account, nil
}

// storeError keeps the sentinels the HTTP layer answers with a specific status
// and folds everything else into common.ErrorInternal.
func storeError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrConflict):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", common.ErrValidation, err)
}
