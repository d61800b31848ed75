package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/service"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "username and password are required"})
		return
	}

	token, user, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Login failures are 401, not 403: the caller has no identity yet.
		if service.CodeOf(err) == service.CodeUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    string(service.CodeUnauthorized),
				"message": "invalid credentials",
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

func (s *Server) me(c *gin.Context) {
	userID := currentUserID(c)
	user, err := s.users.Get(c.Request.Context(), userID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"full_name":   user.FullName,
		"role":        user.Role,
		"shop_id":     user.ShopID,
		"permissions": s.guard.Permissions(c.Request.Context(), userID).List(),
	})
}
