package service

import (
	"strings" // String manipulation

	"github.com/samber/oops"     // Coded errors
	"golang.org/x/crypto/bcrypt" // Password hashing
)

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code(CodePasswordTooShort).Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return oops.Code(CodePasswordTooLong).Errorf("password must not exceed %d bytes", MaxPasswordLength)
	}
	return nil
}

// cleanName trims name and rejects names made only of whitespace
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", oops.Code(CodeNameRequired).Errorf("name is required")
	}
	return name, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
