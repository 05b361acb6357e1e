// AngelaMos | 2026
// password_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestPasswordHashAndVerify(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	encoded, err := h.Hash("pw")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")
	assert.NotContains(t, encoded, "pw$")

	ok, rehash, err := h.Verify("pw", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rehash)

	ok, _, err = h.Verify("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordRehashOnParamChange(t *testing.T) {
	old := NewPasswordHasher(fastParams)
	encoded, err := old.Hash("secret")
	require.NoError(t, err)

	stronger := fastParams
	stronger.Time = 2
	current := NewPasswordHasher(stronger)

	ok, rehash, err := current.Verify("secret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, rehash)
	assert.Contains(t, rehash, "t=2")

	ok, rehash, err = current.Verify("secret", rehash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rehash)
}

func TestVerifyTimingSafeWithoutHash(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	ok, rehash, err := h.VerifyTimingSafe("pw", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rehash)

	empty := ""
	ok, _, err = h.VerifyTimingSafe("pw", &empty)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	_, _, err := h.Verify("pw", "plaintext")
	assert.Error(t, err)

	_, _, err = h.Verify("pw", "$bcrypt$v=19$m=1,t=1,p=1$abc$def")
	assert.Error(t, err)
}
