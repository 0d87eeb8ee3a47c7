package auth

import (
	"time"

	"github.com/proofolio/proofolio/internal/common"
)

// Credentials binds the password and token helpers to the server secret.
type Credentials struct {
	secret []byte
	ttl    time.Duration
}

func NewCredentials(secret string, sessionTTL time.Duration) *Credentials {
	return &Credentials{secret: []byte(secret), ttl: sessionTTL}
}

func (c *Credentials) Hash(password string) (string, error) {
	return HashPassword(password)
}

func (c *Credentials) Verify(password, hash string) bool {
	return VerifyPassword(password, hash)
}

// IssueSession returns a signed session token for accountID.
func (c *Credentials) IssueSession(accountID string) (string, error) {
	return GenerateToken(accountID, c.secret, c.ttl)
}

// VerifySession returns the account id of a valid session. Every failure,
// expiry included, is common.ErrInvalidSession.
func (c *Credentials) VerifySession(token string) (string, error) {
	if token == "" {
		return "", common.ErrInvalidSession
	}
	id, err := GetUserIDFromToken(token, c.secret)
	if err != nil {
		return "", common.ErrInvalidSession
	}
	return id, nil
}

// SessionTTL is the absolute lifetime given to new sessions.
func (c *Credentials) SessionTTL() time.Duration {
	return c.ttl
}
