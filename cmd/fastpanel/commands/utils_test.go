package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSSHURL(t *testing.T) {
	username, hostname, port, err := parseSSHURL("root@203.0.113.10:2222")
	require.NoError(t, err)
	assert.Equal(t, "root", username)
	assert.Equal(t, "203.0.113.10", hostname)
	assert.Equal(t, uint(2222), port)
}

func TestParseSSHURLDefaultPort(t *testing.T) {
	username, hostname, port, err := parseSSHURL("deploy@example.com")
	require.NoError(t, err)
	assert.Equal(t, "deploy", username)
	assert.Equal(t, "example.com", hostname)
	assert.Equal(t, uint(22), port)
}

func TestParseSSHURLRejectsMissingUsername(t *testing.T) {
	_, _, _, err := parseSSHURL("example.com:22")
	assert.Error(t, err)
}

func TestParseSSHURLRejectsBadPort(t *testing.T) {
	_, _, _, err := parseSSHURL("root@example.com:notaport")
	assert.Error(t, err)

	_, _, _, err = parseSSHURL("root@example.com:70000")
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "se******34", maskSecret("namecheap_api_key", "secret1234"))
	assert.Equal(t, "****", maskSecret("cloudflare_api_token", "abc"))
	assert.Equal(t, "user@example.com", maskSecret("letsencrypt_email", "user@example.com"))
}
