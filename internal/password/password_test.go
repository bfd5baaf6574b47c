package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := password.Verify("correct horse battery staple", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = password.Verify("wrong password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("secret")
	require.NoError(t, err)
	second, err := password.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	} {
		_, err := password.Verify("secret", encoded)
		require.Error(t, err, "encoded=%q", encoded)
	}
}
