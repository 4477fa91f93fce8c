package settings

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Setting{}))

	return NewRepository(db)
}

func TestGetMissingKeyIsEmpty(t *testing.T) {
	repo := testRepository(t)

	assert.Empty(t, repo.Get(KeyCloudflareToken))
}

func TestSaveOverwrites(t *testing.T) {
	repo := testRepository(t)

	require.NoError(t, repo.Save(KeyPanelCLIPath, "/opt/fastpanel/cli"))
	require.NoError(t, repo.Save(KeyPanelCLIPath, "/usr/local/fastpanel2/fastpanel"))

	assert.Equal(t, "/usr/local/fastpanel2/fastpanel", repo.Get(KeyPanelCLIPath))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
