package domains

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
	require.NoError(t, db.AutoMigrate(&Domain{}))

	return NewRepository(db)
}

func TestSaveAndGetByName(t *testing.T) {
	repo := testRepository(t)

	require.NoError(t, repo.Save(&Domain{Name: "example.com", ServerID: "srv-1"}))

	domain, err := repo.GetByName("example.com")
	require.NoError(t, err)
	assert.Equal(t, "srv-1", domain.ServerID)

	_, err = repo.GetByName("missing.com")
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestGetByServer(t *testing.T) {
	repo := testRepository(t)

	require.NoError(t, repo.Save(&Domain{Name: "b.com", ServerID: "srv-1"}))
	require.NoError(t, repo.Save(&Domain{Name: "a.com", ServerID: "srv-1"}))
	require.NoError(t, repo.Save(&Domain{Name: "c.com", ServerID: "srv-2"}))

	list, err := repo.GetByServer("srv-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.com", list[0].Name)
	assert.Equal(t, "b.com", list[1].Name)
}

func TestUpdateAutomationFields(t *testing.T) {
	repo := testRepository(t)

	require.NoError(t, repo.Save(&Domain{Name: "example.com", ServerID: "srv-1"}))

	domain, err := repo.GetByName("example.com")
	require.NoError(t, err)

	domain.FTPLogin = "example"
	domain.FTPPassword = "p4ssword"
	domain.SSLStatus = "active"
	require.NoError(t, repo.Save(domain))

	updated, err := repo.GetByName("example.com")
	require.NoError(t, err)
	assert.Equal(t, "example", updated.FTPLogin)
	assert.Equal(t, "active", updated.SSLStatus)
}

func TestDelete(t *testing.T) {
	repo := testRepository(t)

	require.NoError(t, repo.Save(&Domain{Name: "example.com"}))
	require.NoError(t, repo.Delete("example.com"))

	_, err := repo.GetByName("example.com")
	assert.ErrorIs(t, err, ErrDomainNotFound)
}
