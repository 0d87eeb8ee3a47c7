package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/server/auth"
	"github.com/proofolio/proofolio/internal/server/models"
	"github.com/proofolio/proofolio/internal/server/repositories/repomanager"
)

// Session is what a successful register or login hands back: the account and
// a signed token for the cookie.
type Session struct {
	Account *models.Account
	Token   string
}

// Credentials is the subset of auth.Credentials used by AccountService.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	IssueSession(accountID string) (string, error)
	VerifySession(token string) (string, error)
}

var _ Credentials = (*auth.Credentials)(nil)

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	credentials Credentials
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, c Credentials) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		credentials: c,
	}
}

type signupInput struct {
	Email    string
	Password string
}

func (in signupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat, validation.By(handleSafe)),
		validation.Field(&in.Password, validation.Required, validation.By(passwordBytes)),
	)
}

// handleSafe rejects emails whose local part cannot serve as a /public/{handle}
// path segment.
func handleSafe(v any) error {
	s, _ := v.(string)
	if !PathSafeHandle(HandleOf(s)) {
		return errors.New("local part may only contain letters, digits and -._~!$&'()*+,;=")
	}
	return nil
}

func passwordBytes(v any) error {
	if s, _ := v.(string); len(s) > auth.MaxPasswordBytes {
		return fmt.Errorf("must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

// Register creates an account and opens a session for it. The handle is the
// email local part and has to be unique as well as the email.
func (s *AccountService) Register(ctx context.Context, email, password string) (*Session, error) {
	in := signupInput{Email: NormalizeEmail(email), Password: password}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	hash, err := s.credentials.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	handle := HandleOf(in.Email)
	account, err := s.repomanager.Accounts(s.db).Create(ctx, &models.Account{
		Email:        in.Email,
		Handle:       handle,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			if strings.Contains(err.Error(), "handle") {
				return nil, fmt.Errorf("%w: handle %q", common.ErrConflict, handle)
			}
			return nil, fmt.Errorf("%w: email", common.ErrConflict)
		}
		return nil, storeError(err)
	}

	return s.open(account)
}

// Login checks the password and opens a session. Unknown email and wrong
// password are both common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPassword(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, storeError(err)
	}

	if !s.credentials.Verify(password, account.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.open(account)
}

func (s *AccountService) open(account *models.Account) (*Session, error) {
	token, err := s.credentials.IssueSession(account.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue session: %v", common.ErrorInternal, err)
	}
	return &Session{Account: account, Token: token}, nil
}

// Authenticate turns a session token into the id of an existing account.
// Every session problem, including a deleted account, is
// common.ErrNotAuthenticated; only store failures are reported otherwise.
func (s *AccountService) Authenticate(ctx context.Context, token string) (string, error) {
	id, err := s.credentials.VerifySession(token)
	if err != nil {
		return "", common.ErrNotAuthenticated
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", common.ErrNotAuthenticated
	}

	if _, err := s.repomanager.Accounts(s.db).GetByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrNotAuthenticated
		}
		return "", storeError(err)
	}
	return id, nil
}

// Me returns the account behind an authenticated id.
func (s *AccountService) Me(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotAuthenticated
		}
		return nil, storeError(err)
	}
	return account, nil
}

// ResolveHandle looks up the account publishing under handle.
func (s *AccountService) ResolveHandle(ctx context.Context, handle string) (*models.Account, error) {
	return resolveHandle(ctx, s.repomanager.Accounts(s.db), handle)
}
