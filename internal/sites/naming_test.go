package sites

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountName(t *testing.T) {
	cases := []struct {
		domain   string
		expected string
	}{
		{"example.com", "example"},
		{"My-Shop.example.org", "myshop"},
		{"123movies.net", "u123movies"},
		{"sub.deep.example.com", "sub"},
		{"averyveryverylongdomainlabel.com", "averyveryverylon"},
		{"---.com", "site"},
		{"", "site"},
		{"  Example.COM  ", "example"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, AccountName(tc.domain), "domain %q", tc.domain)
	}
}

func TestGeneratePasswordLengthAndCharset(t *testing.T) {
	password, err := GeneratePassword(16)
	require.NoError(t, err)

	assert.Len(t, password, 16)
	for _, r := range password {
		assert.Contains(t, passwordAlphabet, string(r))
	}
}

func TestGeneratePasswordIsNotConstant(t *testing.T) {
	a, err := GeneratePassword(16)
	require.NoError(t, err)
	b, err := GeneratePassword(16)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.False(t, strings.ContainsAny(a, "'\"$`"))
}
