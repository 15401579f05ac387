// internal/auth/password_test.go
package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("hunter2-but-longer")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"), "encoded = %q", encoded)

	ok, err := VerifyPassword("hunter2-but-longer", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("hunter3", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	a, err := HashPassword("same-input")
	require.NoError(t, err)
	b, err := HashPassword("same-input")
	require.NoError(t, err)
	require.NotEqual(t, a, b, "two hashes of one password must differ by salt")
}

func TestVerifyPasswordRejectsBadEncodings(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
		want    error
	}{
		{"empty", "", ErrMalformedHash},
		{"wrong variant", "$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$a2V5", ErrMalformedHash},
		{"missing sections", "$argon2id$v=19$m=65536,t=3,p=2", ErrMalformedHash},
		{"future version", "$argon2id$v=99$m=65536,t=3,p=2$c2FsdA$a2V5", ErrHashVersion},
		{"bad salt base64", "$argon2id$v=19$m=65536,t=3,p=2$!!!$a2V5", ErrMalformedHash},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyPassword("whatever", tc.encoded)
			require.ErrorIs(t, err, tc.want)
		})
	}
}
