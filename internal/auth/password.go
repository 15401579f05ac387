// internal/auth/password.go
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash means a stored credential does not parse as an encoded
// argon2id hash.
var ErrMalformedHash = errors.New("malformed argon2id hash")

// ErrHashVersion means the stored hash was produced by an argon2 version this
// build cannot verify.
var ErrHashVersion = errors.New("unsupported argon2 version")

// argonParams is the argon2id cost profile. Every encoded hash carries its own
// copy, so the defaults below can be raised later without invalidating
// credentials already in the players table.
type argonParams struct {
	memoryKiB uint32
	passes    uint32
	threads   uint8
	saltLen   uint32
	keyLen    uint32
}

var defaultArgon = argonParams{
	memoryKiB: 64 * 1024,
	passes:    3,
	threads:   2,
	saltLen:   16,
	keyLen:    32,
}

// HashPassword derives an argon2id key from the password under a fresh random
// salt and returns it in the standard $argon2id$v=..$m=..$salt$key encoding.
func HashPassword(password string) (string, error) {
	salt := make([]byte, defaultArgon.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt,
		defaultArgon.passes, defaultArgon.memoryKiB, defaultArgon.threads, defaultArgon.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, defaultArgon.memoryKiB, defaultArgon.passes, defaultArgon.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches the stored encoded hash. The
// key is re-derived with the cost parameters recorded in the hash itself and
// compared in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, key, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	derived := argon2.IDKey([]byte(password), salt, p.passes, p.memoryKiB, p.threads, p.keyLen)
	return subtle.ConstantTimeCompare(key, derived) == 1, nil
}

func parseHash(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if version != argon2.Version {
		return p, nil, nil, ErrHashVersion
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memoryKiB, &p.passes, &p.threads); err != nil {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}
