package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/service"
)

type amendmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (s *Server) requestAmendment(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)
	if !s.guard.HasPermission(c.Request.Context(), userID, auth.PermRequestAmendment) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to request amendments"})
		return
	}

	var req amendmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "amendment reason is required"})
		return
	}
	task, err := s.amendments.Request(c.Request.Context(), taskID, userID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task":                       task,
		"requires_director_approval": s.amendments.RequiresDirectorApproval(task.PriorityID, task.CategoryID),
	})
}

type amendmentReviewRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) reviewAmendment(c *gin.Context, decide func(c *gin.Context, taskID, reviewerID uint, notes string) error) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)
	if !s.guard.HasPermission(c.Request.Context(), userID, auth.PermApproveAmendment) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to review amendments"})
		return
	}

	var req amendmentReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Notes = ""
	}
	if err := decide(c, taskID, userID, req.Notes); err != nil {
		writeError(c, err)
	}
}

func (s *Server) approveAmendment(c *gin.Context) {
	s.reviewAmendment(c, func(c *gin.Context, taskID, reviewerID uint, notes string) error {
		task, err := s.amendments.Approve(c.Request.Context(), taskID, reviewerID, notes)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, task)
		return nil
	})
}

func (s *Server) rejectAmendment(c *gin.Context) {
	s.reviewAmendment(c, func(c *gin.Context, taskID, reviewerID uint, notes string) error {
		task, err := s.amendments.Reject(c.Request.Context(), taskID, reviewerID, notes)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, task)
		return nil
	})
}

func (s *Server) forwardAmendment(c *gin.Context) {
	s.reviewAmendment(c, func(c *gin.Context, taskID, reviewerID uint, notes string) error {
		task, err := s.amendments.ForwardToDirector(c.Request.Context(), taskID, reviewerID, notes)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, task)
		return nil
	})
}

func (s *Server) pendingAmendments(c *gin.Context) {
	tasks, err := s.amendments.Pending(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
