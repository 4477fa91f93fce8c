package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vf552639/fastpanel/internal/servers"
)

func TestInitCreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fastpanel.db")

	db, err := Init(path)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, Close(db))
	}()

	assert.FileExists(t, path)

	// migrations ran: a round-trip through a repository works
	repo := servers.NewRepository(db)
	require.NoError(t, repo.Save(&servers.Server{Name: "vps1", Host: "203.0.113.10", SSHPort: 22, SSHUser: "root"}))

	server, err := repo.Get("vps1")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.10", server.Host)
}
