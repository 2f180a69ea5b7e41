package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
	"github.com/almira/almira-backend/internal/websocket"
)

type NotificationController struct {
	notificationService service.NotificationService
	hub                 *websocket.Hub
	upgrader            gorillaws.Upgrader
}

func NewNotificationController(notificationService service.NotificationService, hub *websocket.Hub) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		hub:                 hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// List returns the user's notifications, newest first
// GET /api/v1/notifications
func (ctrl *NotificationController) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	offset, limit := pagination(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := ctrl.notificationService.List(userID, unreadOnly, offset, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
	})
}

// UnreadCount returns the badge count
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	count, err := ctrl.notificationService.CountUnread(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead marks one notification read
// POST /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid notification ID")
		return
	}

	if err := ctrl.notificationService.MarkRead(id, userID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Notification not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllRead marks every notification read
// POST /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.notificationService.MarkAllRead(userID); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read"})
}

// Stream upgrades the request to a websocket and pushes notifications
// as they are created
// GET /api/v1/ws
func (ctrl *NotificationController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
