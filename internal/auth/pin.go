// Package auth guards the local workspace with a numeric PIN.
//
// The PIN only gates the local UI; it is not a security boundary. It is
// stored as a bcrypt hash rather than in clear text, which is the only
// hardening applied.
package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tara-vision/stackhat/internal/storage"
)

// MaxPINLength matches the six-slot keypad
const MaxPINLength = 6

var (
	// ErrInvalidPIN is returned for PINs that are empty, too long or not numeric
	ErrInvalidPIN = errors.New("PIN must be 1 to 6 digits")

	// ErrWrongPIN is returned when a PIN does not match the profile
	ErrWrongPIN = errors.New("PIN does not match")
)

// ValidatePIN checks the shape of a PIN
func ValidatePIN(pin string) error {
	if len(pin) == 0 || len(pin) > MaxPINLength {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// NewProfile hashes pin into a fresh profile
func NewProfile(pin string, now time.Time) (*storage.Profile, error) {
	if err := ValidatePIN(pin); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}
	return &storage.Profile{PIN: string(hash), CreatedAt: now.UTC()}, nil
}

// Verify checks pin against the profile
func Verify(profile *storage.Profile, pin string) error {
	if profile == nil {
		return ErrWrongPIN
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PIN), []byte(pin)); err != nil {
		return ErrWrongPIN
	}
	return nil
}
