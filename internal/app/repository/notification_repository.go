package repository

import (
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByUser(userID uint, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
	CountUnread(userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		logger.Error("Failed to create notification in database", err, map[string]interface{}{
			"user_id": notification.UserID,
			"type":    notification.Type,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) FindByUser(userID uint, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var notifications []model.Notification
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	if err != nil {
		logger.Error("Failed to list notifications in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(id, userID uint) error {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		logger.Error("Failed to mark notification read in database", result.Error, map[string]interface{}{
			"notification_id": id,
			"user_id":         userID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(userID uint) error {
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		logger.Error("Failed to mark notifications read in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count unread notifications in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return count, nil
}
