package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

const (
	MinUsernameLength = 5
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

var (
	invalidUsernameChars = "@#%{}"
	commonPasswords      = map[string]struct{}{
		"password": {},
		"123456":   {},
		"12345678": {},
		"qwerty":   {},
	}
)

// ValidUsername checks the shape of a username. Uniqueness is checked by the store.
func ValidUsername(username string) bool {
	n := len(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return false
	}
	return !strings.ContainsAny(username, invalidUsernameChars)
}

func ValidPassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	_, common := commonPasswords[strings.ToLower(password)]
	return !common
}
