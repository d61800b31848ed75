package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/service"
)

type userRequest struct {
	Username       string     `json:"username"`
	Password       string     `json:"password"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	Role           model.Role `json:"role"`
	SupervisorID   *uint      `json:"supervisor_id"`
	ShopID         *uint      `json:"shop_id"`
	TelegramChatID int64      `json:"telegram_chat_id"`
}

func (r userRequest) toInput() service.UserInput {
	return service.UserInput{
		Username:       r.Username,
		Password:       r.Password,
		Email:          r.Email,
		FullName:       r.FullName,
		Role:           r.Role,
		SupervisorID:   r.SupervisorID,
		ShopID:         r.ShopID,
		TelegramChatID: r.TelegramChatID,
	}
}

// userView strips the password hash out of API responses.
func userView(user *model.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"full_name":     user.FullName,
		"role":          user.Role,
		"status":        user.Status,
		"supervisor_id": user.SupervisorID,
		"shop_id":       user.ShopID,
		"created_at":    user.CreatedAt,
	}
}

func (s *Server) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid user payload"})
		return
	}
	user, err := s.users.Create(c.Request.Context(), currentUserID(c), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userView(user))
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (s *Server) getUser(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := s.users.Get(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

func (s *Server) updateUser(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid user payload"})
		return
	}
	user, err := s.users.Update(c.Request.Context(), currentUserID(c), targetID, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

type userStatusRequest struct {
	Status model.UserStatus `json:"status" binding:"required"`
}

func (s *Server) setUserStatus(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "status is required"})
		return
	}
	user, err := s.users.SetStatus(c.Request.Context(), currentUserID(c), targetID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}
