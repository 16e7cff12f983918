// Package cryptox implements one-way password hashing for stored
// credentials. New hashes use Argon2id in PHC string format; bcrypt hashes
// are still accepted so older records keep working until they are rehashed.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/learnhub/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// VerificationResult is the outcome of checking a password against a hash.
type VerificationResult int

const (
	VerificationFailed VerificationResult = iota
	VerificationSuccess
	// VerificationSuccessRehashNeeded means the password matched but the hash
	// was produced by an older algorithm or parameter set.
	VerificationSuccessRehashNeeded
)

func (r VerificationResult) String() string {
	switch r {
	case VerificationSuccess:
		return "success"
	case VerificationSuccessRehashNeeded:
		return "success_rehash_needed"
	default:
		return "failed"
	}
}

// Succeeded reports whether the password matched.
func (r VerificationResult) Succeeded() bool {
	return r == VerificationSuccess || r == VerificationSuccessRehashNeeded
}

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// Hasher hashes and verifies passwords. Implementations never return the
// same encoded hash twice for the same password.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) (VerificationResult, error)
}

// Argon2Params are the Argon2id cost parameters.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params matches the RFC 9106 second recommended option.
var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  1,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

const argon2Prefix = "$argon2id$"

var b64 = base64.RawStdEncoding

type Argon2Hasher struct {
	params Argon2Params
}

var _ Hasher = (*Argon2Hasher)(nil)

func NewArgon2Hasher(p Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: p}
}

// Hash derives a key from password with a fresh random salt and returns it
// encoded as $argon2id$v=19$m=...,t=...,p=...$<salt>$<key>.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	if h.params.KeyLength == 0 || h.params.SaltLength == 0 {
		return "", fmt.Errorf("argon2: zero key or salt length")
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	salt := common.GenerateRandByteArray(int(h.params.SaltLength))
	key := argon2.IDKey(pw, salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify checks password against encodedHash in constant time.
// A mismatch is reported as VerificationFailed with a nil error; an error is
// only returned when the stored hash itself is unusable.
func (h *Argon2Hasher) Verify(encodedHash, password string) (VerificationResult, error) {
	if isBcrypt(encodedHash) {
		return verifyBcrypt(encodedHash, password)
	}

	stored, salt, key, err := decodeArgon2(encodedHash)
	if err != nil {
		return VerificationFailed, err
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	candidate := argon2.IDKey(pw, salt, stored.Iterations, stored.Memory, stored.Parallelism, stored.KeyLength)
	if subtle.ConstantTimeCompare(key, candidate) != 1 {
		return VerificationFailed, nil
	}

	if stored != h.params {
		return VerificationSuccessRehashNeeded, nil
	}
	return VerificationSuccess, nil
}

func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	if !strings.HasPrefix(encoded, argon2Prefix) {
		return p, nil, nil, ErrMalformedHash
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrMalformedHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrMalformedHash
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func verifyBcrypt(encoded, password string) (VerificationResult, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return VerificationSuccessRehashNeeded, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return VerificationFailed, nil
	default:
		return VerificationFailed, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
