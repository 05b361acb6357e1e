// AngelaMos | 2026
// password.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

var DefaultArgon2Params = Argon2Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

// PasswordHasher produces and checks PHC-style argon2id strings. Hashes
// created under different parameters still verify and are flagged for
// rehash.
type PasswordHasher struct {
	params Argon2Params

	dummyOnce sync.Once
	dummyHash string
}

func NewPasswordHasher(params Argon2Params) *PasswordHasher {
	return &PasswordHasher{params: params}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Time,
		h.params.Memory,
		h.params.Threads,
		h.params.KeyLen,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. When it matches and the
// stored parameters are stale, rehash holds a fresh encoding to persist.
func (h *PasswordHasher) Verify(
	password, encoded string,
) (ok bool, rehash string, err error) {
	stored, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, "", err
	}

	got := argon2.IDKey(
		[]byte(password),
		salt,
		stored.Time,
		stored.Memory,
		stored.Threads,
		stored.KeyLen,
	)

	if subtle.ConstantTimeCompare(want, got) != 1 {
		return false, "", nil
	}

	if stored == h.params {
		return true, "", nil
	}

	fresh, hashErr := h.Hash(password)
	if hashErr != nil {
		//nolint:nilerr // password verified; rehash is best effort
		return true, "", nil
	}
	return true, fresh, nil
}

// VerifyTimingSafe spends the same work whether or not a stored hash
// exists, so unknown usernames are not distinguishable by latency.
func (h *PasswordHasher) VerifyTimingSafe(
	password string,
	encoded *string,
) (bool, string, error) {
	if encoded == nil || *encoded == "" {
		//nolint:errcheck // result is discarded on purpose
		_, _, _ = h.Verify(password, h.dummy())
		return false, "", nil
	}

	return h.Verify(password, *encoded)
}

func (h *PasswordHasher) dummy() string {
	h.dummyOnce.Do(func() {
		hash, err := h.Hash("storefront-dummy-password")
		if err != nil {
			panic(fmt.Sprintf("password: dummy hash: %v", err))
		}
		h.dummyHash = hash
	})
	return h.dummyHash
}

func decodeHash(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, nil, nil, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	if _, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&p.Memory,
		&p.Time,
		&p.Threads,
	); err != nil {
		return p, nil, nil, fmt.Errorf("invalid params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	//nolint:gosec // G115: salt and key lengths are a few dozen bytes
	p.SaltLen, p.KeyLen = uint32(len(salt)), uint32(len(key))

	return p, salt, key, nil
}
