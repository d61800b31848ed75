package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listNotifications(c *gin.Context) {
	notifications, err := s.notifications.Unread(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.notifications.MarkRead(c.Request.Context(), notificationID, currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) markAllNotificationsRead(c *gin.Context) {
	if err := s.notifications.MarkAllRead(c.Request.Context(), currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
