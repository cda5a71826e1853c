package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/brandcorner-backend/pkg/security"
)

var fastParams = security.ArgonParams{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := security.HashSecret("admin-key", fastParams)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := security.VerifySecret("admin-key", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = security.VerifySecret("wrong-key", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashSecretRejectsEmpty(t *testing.T) {
	_, err := security.HashSecret("", fastParams)
	require.Error(t, err)
}

func TestVerifySecretBadHash(t *testing.T) {
	_, err := security.VerifySecret("irrelevant", "not-a-hash")
	require.ErrorIs(t, err, security.ErrInvalidHash)

	_, err = security.VerifySecret("irrelevant", "$argon2id$v=19$m=0,t=1,p=1$c2FsdA$aGFzaA")
	require.ErrorIs(t, err, security.ErrInvalidHash)
}

func TestGenerateAPIKey(t *testing.T) {
	key, err := security.GenerateAPIKey(40)
	require.NoError(t, err)
	require.Len(t, key, 40)

	other, err := security.GenerateAPIKey(40)
	require.NoError(t, err)
	require.NotEqual(t, key, other)

	_, err = security.GenerateAPIKey(0)
	require.Error(t, err)
}
