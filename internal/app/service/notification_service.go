package service

import (
	"errors"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationPusher delivers a payload to a user's live connections.
type NotificationPusher interface {
	SendToUser(userID uint, payload interface{})
}

// NotificationService persists in-app notifications and pushes them to
// connected clients. The push is best-effort; the stored row is the
// source of truth.
type NotificationService interface {
	Notify(userID uint, typ model.NotificationType, title, body, link string) error
	List(userID uint, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
	CountUnread(userID uint) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	pusher           NotificationPusher
}

func NewNotificationService(notificationRepo repository.NotificationRepository, pusher NotificationPusher) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

func (s *notificationService) Notify(userID uint, typ model.NotificationType, title, body, link string) error {
	notification := &model.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
		Link:   link,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	if s.pusher != nil {
		s.pusher.SendToUser(userID, notification)
	}

	logger.Debug("Notification issued", map[string]interface{}{
		"user_id": userID,
		"type":    typ,
	})
	return nil
}

func (s *notificationService) List(userID uint, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	return s.notificationRepo.FindByUser(userID, unreadOnly, offset, limit)
}

func (s *notificationService) MarkRead(id, userID uint) error {
	err := s.notificationRepo.MarkRead(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

func (s *notificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}
