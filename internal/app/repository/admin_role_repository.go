package repository

import (
	"strings"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminRoleRepository persists per-email permission grants. The whole
// permission set is replaced on write, there is no merge.
type AdminRoleRepository interface {
	Get(email string) (*model.AdminRole, error)
	Set(email string, permissions []string) (*model.AdminRole, error)
	Delete(email string) error
	List() ([]model.AdminRole, error)
}

type adminRoleRepository struct {
	db *gorm.DB
}

func NewAdminRoleRepository(db *gorm.DB) AdminRoleRepository {
	return &adminRoleRepository{db: db}
}

func (r *adminRoleRepository) Get(email string) (*model.AdminRole, error) {
	var role model.AdminRole
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&role).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find admin role in database", err, map[string]interface{}{
				"email": email,
			})
		}
		return nil, err
	}
	return &role, nil
}

func (r *adminRoleRepository) Set(email string, permissions []string) (*model.AdminRole, error) {
	role := model.AdminRole{
		Email:       strings.ToLower(email),
		Permissions: model.StringArray(permissions),
	}

	logger.Debug("Storing admin role in database", map[string]interface{}{
		"email":       role.Email,
		"permissions": permissions,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"permissions", "updated_at"}),
	}).Create(&role).Error
	if err != nil {
		logger.Error("Failed to store admin role in database", err, map[string]interface{}{
			"email": role.Email,
		})
		return nil, err
	}
	return &role, nil
}

func (r *adminRoleRepository) Delete(email string) error {
	result := r.db.Where("email = ?", strings.ToLower(email)).Delete(&model.AdminRole{})
	if result.Error != nil {
		logger.Error("Failed to delete admin role in database", result.Error, map[string]interface{}{
			"email": email,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adminRoleRepository) List() ([]model.AdminRole, error) {
	var roles []model.AdminRole
	if err := r.db.Order("email ASC").Find(&roles).Error; err != nil {
		logger.Error("Failed to list admin roles in database", err)
		return nil, err
	}
	return roles, nil
}
