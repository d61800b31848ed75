package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
	"maintenance-tracker/internal/service"
)

type taskRequest struct {
	SerialNumber string `json:"serial_number"`
	PartNumber   string `json:"part_number"`
	PoNumber     string `json:"po_number"`
	Description  string `json:"description"`

	CategoryID    uint  `json:"category_id"`
	SubTypeID     *uint `json:"sub_type_id"`
	RequestTypeID *uint `json:"request_type_id"`
	PriorityID    uint  `json:"priority_id"`

	Status    model.TaskStatus `json:"status"`
	Comments  string           `json:"comments"`
	Assignees []string         `json:"assignees"`

	EstimatedCompletionDate time.Time  `json:"estimated_completion_date"`
	TargetCompletionDate    *time.Time `json:"target_completion_date"`
	ActualCompletionDate    *time.Time `json:"actual_completion_date"`

	ShopID                 *uint  `json:"shop_id"`
	IsDuplicate            bool   `json:"is_duplicate"`
	DuplicateJustification string `json:"duplicate_justification"`
	IsMandatory            bool   `json:"is_mandatory"`
}

func (r taskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		SerialNumber:            r.SerialNumber,
		PartNumber:              r.PartNumber,
		PoNumber:                r.PoNumber,
		Description:             r.Description,
		CategoryID:              r.CategoryID,
		SubTypeID:               r.SubTypeID,
		RequestTypeID:           r.RequestTypeID,
		PriorityID:              r.PriorityID,
		Status:                  r.Status,
		Comments:                r.Comments,
		Assignees:               r.Assignees,
		EstimatedCompletionDate: r.EstimatedCompletionDate,
		TargetCompletionDate:    r.TargetCompletionDate,
		ActualCompletionDate:    r.ActualCompletionDate,
		ShopID:                  r.ShopID,
		IsDuplicate:             r.IsDuplicate,
		DuplicateJustification:  r.DuplicateJustification,
		IsMandatory:             r.IsMandatory,
	}
}

// taskFilterFrom builds the repository filter from query parameters and the
// caller's visibility tier: view_all sees everything, view_shop is pinned
// to the caller's shop, view_own is pinned to the caller's own tasks.
func (s *Server) taskFilterFrom(c *gin.Context) (repository.TaskFilter, error) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var filter repository.TaskFilter
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
	filter.Status = model.TaskStatus(c.Query("status"))
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

	perms := s.guard.Permissions(ctx, userID)
	switch {
	case perms.Has(auth.PermViewAllTasks):
		if raw := c.Query("created_by"); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
				createdBy := uint(id)
				filter.CreatedBy = &createdBy
			}
		}
	case perms.Has(auth.PermViewShopTasks):
		viewer, err := s.users.Get(ctx, userID, userID)
		if err != nil {
			return filter, err
		}
		if viewer.ShopID == nil {
			filter.CreatedBy = &userID
		} else {
			filter.ShopID = viewer.ShopID
		}
	case perms.Has(auth.PermViewOwnTasks):
		filter.CreatedBy = &userID
	default:
		return filter, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to view tasks"}
	}
	return filter, nil
}

func (s *Server) listTasks(c *gin.Context) {
	filter, err := s.taskFilterFrom(c)
	if err != nil {
		writeError(c, err)
		return
	}
	tasks, total, err := s.tasks.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": total})
}

func (s *Server) createTask(c *gin.Context) {
	userID := currentUserID(c)
	if !s.guard.HasPermission(c.Request.Context(), userID, auth.PermCreateTask) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to create tasks"})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid task payload"})
		return
	}
	task, err := s.tasks.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// loadAccessibleTask fetches the task and enforces visibility in one step.
func (s *Server) loadAccessibleTask(c *gin.Context, taskID uint) (*model.Task, bool) {
	task, err := s.tasks.Get(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if !s.guard.CanAccessTask(c.Request.Context(), currentUserID(c), task) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to access this task"})
		return nil, false
	}
	return task, true
}

func (s *Server) getTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, ok := s.loadAccessibleTask(c, taskID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) updateTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)
	if !s.guard.HasPermission(c.Request.Context(), userID, auth.PermUpdateTaskStatus) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to update tasks"})
		return
	}
	if _, ok := s.loadAccessibleTask(c, taskID); !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid task payload"})
		return
	}

	actor, err := s.users.Get(c.Request.Context(), userID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	outcome, err := s.tasks.Update(c.Request.Context(), taskID, actor.FullName, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	if outcome.MovedToArchive {
		c.JSON(http.StatusOK, gin.H{"moved_to_archive": true, "completed_task": outcome.CompletedTask})
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved_to_archive": false, "task": outcome.Task})
}

func (s *Server) deleteTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.guard.HasPermission(c.Request.Context(), currentUserID(c), auth.PermDeleteTask) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to delete tasks"})
		return
	}
	if err := s.tasks.Delete(c.Request.Context(), taskID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (s *Server) cancelTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)
	if !s.guard.HasPermission(c.Request.Context(), userID, auth.PermUpdateTaskStatus) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to cancel tasks"})
		return
	}
	if _, ok := s.loadAccessibleTask(c, taskID); !ok {
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "cancellation reason is required"})
		return
	}
	task, err := s.tasks.Cancel(c.Request.Context(), taskID, userID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) listOverdueTasks(c *gin.Context) {
	userID := currentUserID(c)
	if !s.guard.HasPermission(c.Request.Context(), userID, auth.PermViewReports) {
		writeError(c, &service.Error{Code: service.CodeUnauthorized, Message: "not allowed to view reports"})
		return
	}
	tasks, err := s.sweep.Overdue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) addComment(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadAccessibleTask(c, taskID); !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "comment content is required"})
		return
	}
	comment, err := s.tasks.AddComment(c.Request.Context(), taskID, currentUserID(c), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) listComments(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadAccessibleTask(c, taskID); !ok {
		return
	}
	comments, err := s.tasks.Comments(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type attachmentRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FilePath string `json:"file_path" binding:"required"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

func (s *Server) addAttachment(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadAccessibleTask(c, taskID); !ok {
		return
	}

	var req attachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "file name and path are required"})
		return
	}
	attachment, err := s.tasks.AddAttachment(c.Request.Context(), taskID, currentUserID(c),
		req.FileName, req.FilePath, req.FileType, req.FileSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

func (s *Server) listAttachments(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.loadAccessibleTask(c, taskID); !ok {
		return
	}
	attachments, err := s.tasks.Attachments(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}
