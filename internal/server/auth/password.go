package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor. bcrypt draws a fresh random salt
// on every call, so equal passwords never share a hash.
const PasswordCost = 10

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrInvalidUserData
		}
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("rehearsal-dummy-password"), PasswordCost)
	return h
})

// BurnPasswordCheck spends the same time as CheckPassword against a
// throwaway hash. Login calls it for unknown emails so response timing does
// not reveal which accounts exist.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
}
