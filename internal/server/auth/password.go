package auth

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the bcrypt input limit; longer passwords are rejected
// rather than silently truncated.
const MaxPasswordBytes = 72

// dummyHash is compared against when an account does not exist so that the
// login path costs the same either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("proofolio-dummy-password"), bcrypt.DefaultCost)

var hashCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash is
// a mismatch, never an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPassword spends one bcrypt comparison and always reports a mismatch.
func BurnPassword(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
