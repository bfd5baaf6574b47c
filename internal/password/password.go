package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Credentials are stored as argon2id hashes in the standard encoded form
// ($argon2id$v=..$m=..,t=..,p=..$salt$hash), never as plaintext.

const (
	defaultTime    uint32 = 3
	defaultMemory  uint32 = 64 * 1024
	defaultThreads uint8  = 2
	keyLength      uint32 = 32
	saltLength            = 16
)

var errMalformedHash = errors.New("malformed credential hash")

type params struct {
	version int
	memory  uint32
	time    uint32
	threads uint8
}

// Hash derives an argon2id hash for the given secret with a random salt.
func Hash(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(secret), salt, defaultTime, defaultMemory, defaultThreads, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		defaultMemory,
		defaultTime,
		defaultThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether the secret matches the encoded argon2id hash.
func Verify(secret, encoded string) (bool, error) {
	p, salt, want, err := decode(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(secret), salt, p.time, p.memory, p.threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decode(encoded string) (params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params{}, nil, nil, errMalformedHash
	}

	var p params
	if _, err := fmt.Sscanf(parts[2], "v=%d", &p.version); err != nil {
		return params{}, nil, nil, errMalformedHash
	}
	if p.version != argon2.Version {
		return params{}, nil, nil, errMalformedHash
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &threads); err != nil {
		return params{}, nil, nil, errMalformedHash
	}
	if threads == 0 || threads > 255 {
		return params{}, nil, nil, errMalformedHash
	}
	p.threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params{}, nil, nil, errMalformedHash
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params{}, nil, nil, errMalformedHash
	}

	return p, salt, sum, nil
}
