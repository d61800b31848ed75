package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/repository"
	"maintenance-tracker/internal/service"
)

// completedFilterFrom mirrors the active-store visibility tiers for the
// archive: callers without view_all_tasks see only what they created.
func (s *Server) completedFilterFrom(c *gin.Context) repository.CompletedTaskFilter {
	userID := currentUserID(c)

	var filter repository.CompletedTaskFilter
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if raw := c.Query("priority_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			priorityID := uint(id)
			filter.PriorityID = &priorityID
		}
	}
	filter.Search = c.Query("search")
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &t
		}
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	if !s.guard.HasPermission(c.Request.Context(), userID, auth.PermViewAllTasks) {
		filter.CreatedBy = &userID
	}
	return filter
}

func (s *Server) listCompletedTasks(c *gin.Context) {
	tasks, total, err := s.archive.ListCompleted(c.Request.Context(), s.completedFilterFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed_tasks": tasks, "total": total})
}

func (s *Server) getCompletedTask(c *gin.Context) {
	completedID, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := s.archive.Completed(c.Request.Context(), completedID)
	if err != nil {
		writeError(c, err)
		return
	}
	userID := currentUserID(c)
	if task.CreatedBy != userID && !s.guard.HasPermission(c.Request.Context(), userID, auth.PermViewAllTasks) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to access this completed task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) getCompletedByOriginalTask(c *gin.Context) {
	originalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := s.archive.CompletedByOriginalTask(c.Request.Context(), originalID)
	if err != nil {
		writeError(c, err)
		return
	}
	userID := currentUserID(c)
	if task.CreatedBy != userID && !s.guard.HasPermission(c.Request.Context(), userID, auth.PermViewAllTasks) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to access this completed task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteCompletedTask(c *gin.Context) {
	completedID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.guard.HasPermission(c.Request.Context(), currentUserID(c), auth.PermDeleteTask) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to delete completed tasks"})
		return
	}
	if err := s.archive.DeleteCompleted(c.Request.Context(), completedID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) reopenCompletedTask(c *gin.Context) {
	completedID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.guard.HasPermission(c.Request.Context(), currentUserID(c), auth.PermUpdateTaskStatus) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to reopen completed tasks"})
		return
	}
	task, err := s.archive.Reopen(c.Request.Context(), completedID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) listCompletedComments(c *gin.Context) {
	completedID, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := s.archive.CompletedComments(c.Request.Context(), completedID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (s *Server) listCompletedAttachments(c *gin.Context) {
	completedID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachments, err := s.archive.CompletedAttachments(c.Request.Context(), completedID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}
