package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) userPerformance(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	metrics, err := s.performance.ForUser(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (s *Server) dashboard(c *gin.Context) {
	metrics, err := s.performance.DashboardFor(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
