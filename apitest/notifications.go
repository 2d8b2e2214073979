package apitest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
)

// listNotifications handles GET /api/notifications/.
func (s *Server) listNotifications(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]api.Notification, len(s.notifications))
	copy(list, s.notifications)
	c.JSON(http.StatusOK, list)
}

// markNotificationRead handles POST /api/notifications/:id/mark_read/.
func (s *Server) markNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification ID"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
}

// markAllNotificationsRead handles POST /api/notifications/mark_all_read/.
func (s *Server) markAllNotificationsRead(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
	c.Status(http.StatusNoContent)
}

// deleteNotification handles DELETE /api/notifications/:id/.
func (s *Server) deleteNotification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification ID"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
}

// getNotificationPreferences handles GET /api/notifications/preferences/.
func (s *Server) getNotificationPreferences(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.prefs)
}

// updateNotificationPreferences handles PATCH /api/notifications/preferences/.
func (s *Server) updateNotificationPreferences(c *gin.Context) {
	var prefs api.NotificationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
	c.JSON(http.StatusOK, s.prefs)
}
