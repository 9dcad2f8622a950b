package auth

import (
	ierr "github.com/taktakmenu/platform/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at creation
const MinPasswordLength = 6

// Hasher hashes and verifies credentials
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type bcryptHasher struct {
	cost int
}

// NewHasher returns a bcrypt backed Hasher using the default cost
func NewHasher() Hasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

// NewHasherWithCost is used by tests to keep hashing fast
func NewHasherWithCost(cost int) Hasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ierr.NewError("password too short").
			WithHintf("Password must be at least %d characters", MinPasswordLength).
			Mark(ierr.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
