package credential

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit. Every scheme truncates to it so
// switching schemes never changes which passwords are equivalent.
const MaxPasswordBytes = 72

const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

var ErrUnknownScheme = errors.New("unknown password scheme")

type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash is an
	// error, a wrong password is (false, nil).
	Verify(password, hash string) (bool, error)
}

type hasher struct {
	scheme     string
	bcryptCost int
	argon      *argon2id.Params
}

func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case "", SchemeBcrypt:
		return &hasher{scheme: SchemeBcrypt, bcryptCost: bcrypt.DefaultCost, argon: argon2id.DefaultParams}, nil
	case SchemeArgon2id:
		return &hasher{scheme: SchemeArgon2id, bcryptCost: bcrypt.DefaultCost, argon: argon2id.DefaultParams}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// NewFastHasher uses the cheapest parameters each library accepts. For tests.
func NewFastHasher(scheme string) Hasher {
	return &hasher{
		scheme:     scheme,
		bcryptCost: bcrypt.MinCost,
		argon: &argon2id.Params{
			Memory:      1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

func (h *hasher) Hash(password string) (string, error) {
	pw := truncate(password)

	if h.scheme == SchemeArgon2id {
		hash, err := argon2id.CreateHash(pw, h.argon)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return hash, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify dispatches on the stored hash, not the configured scheme.
func (h *hasher) Verify(password, hash string) (bool, error) {
	pw := truncate(password)

	if strings.HasPrefix(hash, "$argon2id$") {
		return argon2id.ComparePasswordAndHash(pw, hash)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
}

func truncate(password string) string {
	if len(password) > MaxPasswordBytes {
		return password[:MaxPasswordBytes]
	}
	return password
}
