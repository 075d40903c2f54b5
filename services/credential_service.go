package services

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// CredentialChecker verifies the fixed login principal. It stands in for an
// external identity provider; the configured password is hashed once at
// startup so the plaintext is not kept in memory for comparisons.
type CredentialChecker struct {
	username     string
	passwordHash []byte
}

func NewCredentialChecker(username, password string) (*CredentialChecker, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &CredentialChecker{username: username, passwordHash: hash}, nil
}

// Check reports whether the supplied credentials match. The username
// comparison is constant-time; bcrypt handles the password.
func (c *CredentialChecker) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
	return userOK && passOK
}
