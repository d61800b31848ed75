package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/service"
)

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.lookups.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type categoryRequest struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetDays  int    `json:"target_days"`
}

func (s *Server) saveCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid category payload"})
		return
	}
	category := &model.Category{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		TargetDays:  req.TargetDays,
	}
	saved, err := s.lookups.SaveCategory(c.Request.Context(), currentUserID(c), category)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) listSubTypes(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	subTypes, err := s.lookups.SubTypes(c.Request.Context(), categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sub_types": subTypes})
}

func (s *Server) listRequestTypes(c *gin.Context) {
	requestTypes, err := s.lookups.RequestTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_types": requestTypes})
}

func (s *Server) listPriorities(c *gin.Context) {
	priorities, err := s.lookups.Priorities(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"priorities": priorities})
}

type priorityRequest struct {
	ID          uint   `json:"id"`
	LevelName   string `json:"level_name"`
	Description string `json:"description"`
	OrderRank   int    `json:"order_rank"`
}

func (s *Server) savePriority(c *gin.Context) {
	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid priority payload"})
		return
	}
	priority := &model.Priority{
		ID:          req.ID,
		LevelName:   req.LevelName,
		Description: req.Description,
		OrderRank:   req.OrderRank,
	}
	saved, err := s.lookups.SavePriority(c.Request.Context(), currentUserID(c), priority)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) listShops(c *gin.Context) {
	shops, err := s.lookups.Shops(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

type shopRequest struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	TeamLeaderID *uint  `json:"team_leader_id"`
}

func (s *Server) saveShop(c *gin.Context) {
	var req shopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid shop payload"})
		return
	}
	shop := &model.Shop{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		TeamLeaderID: req.TeamLeaderID,
	}
	saved, err := s.lookups.SaveShop(c.Request.Context(), currentUserID(c), shop)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
