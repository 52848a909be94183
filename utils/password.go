package utils

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is the injected password capability: Hash produces the stored form
// of a password, Verify checks a candidate against the stored form.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, input string) bool
}

// SHA256Hasher matches the remote collection's legacy data: passwords are
// stored either in plaintext or as a hex-encoded SHA-256 digest. Verify
// keeps the documented legacy-compatibility branch: a candidate matches if
// it equals the stored value directly OR its digest does. Do not remove the
// plaintext branch without migrating the remote records.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return fmt.Sprintf("%x", sum), nil
}

func (h SHA256Hasher) Verify(stored, input string) bool {
	if stored == "" {
		return false
	}
	if stored == input {
		return true
	}
	hashed, err := h.Hash(input)
	if err != nil {
		return false
	}
	return stored == hashed
}

// BcryptHasher is the opt-in stronger scheme for installations whose remote
// records were created by this application. It has no plaintext fallback.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(hashed), nil
}

func (BcryptHasher) Verify(stored, input string) bool {
	if stored == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

// NewHasher returns the hasher for the configured scheme. Unknown schemes
// fall back to sha256.
func NewHasher(scheme string) Hasher {
	if scheme == "bcrypt" {
		return BcryptHasher{}
	}
	return SHA256Hasher{}
}

// ValidateNewPassword checks the password policy and returns translation
// message IDs for every rule the candidate breaks.
func ValidateNewPassword(password string) ValidationErrors {
	var errs ValidationErrors
	if len(password) < 8 {
		errs = append(errs, "password_too_short")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		errs = append(errs, "password_needs_upper")
	}
	if !hasLower {
		errs = append(errs, "password_needs_lower")
	}
	if !hasDigit {
		errs = append(errs, "password_needs_number")
	}
	if !hasSpecial {
		errs = append(errs, "password_needs_special")
	}
	return errs
}
