package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/db"
)

func setupAdminRoleRepoTest(t *testing.T) AdminRoleRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewAdminRoleRepository(testDB)
}

func TestAdminRoleRepository_SetReplacesWholeSet(t *testing.T) {
	repo := setupAdminRoleRepoTest(t)

	_, err := repo.Set("staff@example.com", []string{"coupons", "orders"})
	require.NoError(t, err)

	// a second write is an upsert, not a merge
	_, err = repo.Set("staff@example.com", []string{"products"})
	require.NoError(t, err)

	role, err := repo.Get("staff@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.StringArray{"products"}, role.Permissions)

	roles, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestAdminRoleRepository_GetIsCaseInsensitive(t *testing.T) {
	repo := setupAdminRoleRepoTest(t)

	_, err := repo.Set("Staff@Example.com", []string{"coupons"})
	require.NoError(t, err)

	role, err := repo.Get("STAFF@example.com")
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", role.Email)
}

func TestAdminRoleRepository_Delete(t *testing.T) {
	repo := setupAdminRoleRepoTest(t)

	_, err := repo.Set("staff@example.com", []string{"coupons"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete("staff@example.com"))

	_, err = repo.Get("staff@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete("staff@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
