package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
)

func setupPermissionServiceTest(t *testing.T, ownerEmails []string) PermissionService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewPermissionService(repository.NewAdminRoleRepository(testDB), ownerEmails, nil)
}

func TestPermissionService_FailsClosed(t *testing.T) {
	permissionService := setupPermissionServiceTest(t, nil)

	assert.False(t, permissionService.CanAccess("stranger@example.com"))
	assert.False(t, permissionService.CanAccess(""))

	for _, tag := range model.AllPermissions {
		assert.False(t, permissionService.HasPermission("stranger@example.com", tag))
	}

	resolved := permissionService.Resolve("stranger@example.com")
	assert.False(t, resolved.Owner)
	assert.Empty(t, resolved.Permissions)
}

func TestPermissionService_Grant(t *testing.T) {
	permissionService := setupPermissionServiceTest(t, nil)

	_, err := permissionService.SetRole("Staff@Example.com", []string{"coupons", "orders"})
	require.NoError(t, err)

	// email is matched case-insensitively
	assert.True(t, permissionService.CanAccess("staff@example.com"))
	assert.True(t, permissionService.CanAccess("STAFF@example.com"))

	assert.True(t, permissionService.HasPermission("staff@example.com", model.PermissionCoupons))
	assert.True(t, permissionService.HasPermission("staff@example.com", model.PermissionOrders))
	assert.False(t, permissionService.HasPermission("staff@example.com", model.PermissionProducts))
	assert.False(t, permissionService.HasPermission("staff@example.com", model.PermissionRoles))

	resolved := permissionService.Resolve("staff@example.com")
	assert.False(t, resolved.Owner)
	assert.ElementsMatch(t, []string{"coupons", "orders"}, resolved.Permissions)
}

func TestPermissionService_Owner(t *testing.T) {
	permissionService := setupPermissionServiceTest(t, []string{"Boss@Almira.shop"})

	assert.True(t, permissionService.CanAccess("boss@almira.shop"))
	for _, tag := range model.AllPermissions {
		assert.True(t, permissionService.HasPermission("boss@almira.shop", tag))
	}

	resolved := permissionService.Resolve("boss@almira.shop")
	assert.True(t, resolved.Owner)
	assert.ElementsMatch(t, model.AllPermissions, resolved.Permissions)
}

func TestPermissionService_SetRole(t *testing.T) {
	permissionService := setupPermissionServiceTest(t, nil)

	t.Run("Unknown tag rejected", func(t *testing.T) {
		role, err := permissionService.SetRole("staff@example.com", []string{"coupons", "superpowers"})
		assert.ErrorIs(t, err, ErrInvalidPermissionTag)
		assert.Nil(t, role)
	})

	t.Run("Owner cannot be granted", func(t *testing.T) {
		role, err := permissionService.SetRole("staff@example.com", []string{model.PermissionOwner})
		assert.ErrorIs(t, err, ErrInvalidPermissionTag)
		assert.Nil(t, role)
	})

	t.Run("Empty email rejected", func(t *testing.T) {
		_, err := permissionService.SetRole("  ", []string{"coupons"})
		assert.ErrorIs(t, err, ErrInvalidPermissionTag)
	})

	t.Run("Tags are normalized and deduplicated", func(t *testing.T) {
		role, err := permissionService.SetRole("Staff@Example.com", []string{" Coupons ", "coupons", "ORDERS"})
		require.NoError(t, err)
		assert.Equal(t, "staff@example.com", role.Email)
		assert.ElementsMatch(t, []string{"coupons", "orders"}, []string(role.Permissions))
	})

	t.Run("Whole set replacement", func(t *testing.T) {
		_, err := permissionService.SetRole("staff@example.com", []string{"coupons", "orders"})
		require.NoError(t, err)
		_, err = permissionService.SetRole("staff@example.com", []string{"products"})
		require.NoError(t, err)

		resolved := permissionService.Resolve("staff@example.com")
		assert.ElementsMatch(t, []string{"products"}, resolved.Permissions)
		assert.False(t, permissionService.HasPermission("staff@example.com", model.PermissionCoupons))
	})

	t.Run("Empty grant revokes access", func(t *testing.T) {
		_, err := permissionService.SetRole("staff@example.com", []string{})
		require.NoError(t, err)
		assert.False(t, permissionService.CanAccess("staff@example.com"))
	})
}

func TestPermissionService_DeleteRole(t *testing.T) {
	permissionService := setupPermissionServiceTest(t, nil)

	_, err := permissionService.SetRole("staff@example.com", []string{"coupons"})
	require.NoError(t, err)

	require.NoError(t, permissionService.DeleteRole("Staff@Example.com"))
	assert.False(t, permissionService.CanAccess("staff@example.com"))

	err = permissionService.DeleteRole("staff@example.com")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestPermissionService_ListRoles(t *testing.T) {
	permissionService := setupPermissionServiceTest(t, nil)

	_, err := permissionService.SetRole("a@example.com", []string{"coupons"})
	require.NoError(t, err)
	_, err = permissionService.SetRole("b@example.com", []string{"orders", "products"})
	require.NoError(t, err)

	roles, err := permissionService.ListRoles()
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}
