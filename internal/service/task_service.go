package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
)

// TaskInput is the caller-supplied task payload, shared by create and
// update (updates are full-field replace).
type TaskInput struct {
	SerialNumber string
	PartNumber   string
	PoNumber     string
	Description  string

	CategoryID    uint
	SubTypeID     *uint
	RequestTypeID *uint
	PriorityID    uint

	Status    model.TaskStatus
	Comments  string
	Assignees []string

	EstimatedCompletionDate time.Time
	TargetCompletionDate    *time.Time
	ActualCompletionDate    *time.Time

	ShopID                 *uint
	IsDuplicate            bool
	DuplicateJustification string
	IsMandatory            bool
}

// UpdateOutcome reports what an update produced. When the update moved the
// task into the completed state, CompletedTask holds the archive row it
// migrated to and the active Task row is gone.
type UpdateOutcome struct {
	Task            *model.Task
	MovedToArchive  bool
	CompletedTask   *model.CompletedTask
}

// TaskService owns the task lifecycle state machine. A status transition
// into the completed state hands off to the ArchiveService within the same
// logical operation: the update has not succeeded until the migration has.
type TaskService struct {
	tasks         *repository.TaskRepository
	lookups       *repository.LookupRepository
	archive       *ArchiveService
	notifications *NotificationService
	now           func() time.Time
}

func NewTaskService(tasks *repository.TaskRepository, lookups *repository.LookupRepository, archive *ArchiveService, notifications *NotificationService) *TaskService {
	return &TaskService{
		tasks:         tasks,
		lookups:       lookups,
		archive:       archive,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *TaskService) validateReferences(ctx context.Context, input TaskInput) (*model.Category, error) {
	if input.Description == "" {
		return nil, invalid("description is required")
	}
	category, err := s.lookups.FindCategory(ctx, input.CategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("category %d does not exist", input.CategoryID)
	}
	if err != nil {
		return nil, serverError("load category: %v", err)
	}
	if _, err := s.lookups.FindPriority(ctx, input.PriorityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("priority %d does not exist", input.PriorityID)
		}
		return nil, serverError("load priority: %v", err)
	}
	return category, nil
}

// targetDateFor derives the target completion date when the caller did not
// supply one: estimated date plus the category's lead time, or just the
// estimated date when the category has no configured lead time.
func targetDateFor(estimated time.Time, explicit *time.Time, category *model.Category) *time.Time {
	if explicit != nil {
		return explicit
	}
	target := estimated
	if category.TargetDays > 0 {
		target = estimated.AddDate(0, 0, category.TargetDays)
	}
	return &target
}

// Create validates references, derives the target date and stores the task
// in the initial pending state. Assignment notifications go out after the
// row is durable, best effort.
func (s *TaskService) Create(ctx context.Context, creatorID uint, input TaskInput) (*model.Task, error) {
	category, err := s.validateReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	estimated := input.EstimatedCompletionDate
	if estimated.IsZero() {
		estimated = s.now().AddDate(0, 0, 7)
	}

	task := &model.Task{
		SerialNumber:            input.SerialNumber,
		PartNumber:              input.PartNumber,
		PoNumber:                input.PoNumber,
		Description:             input.Description,
		CategoryID:              input.CategoryID,
		SubTypeID:               input.SubTypeID,
		RequestTypeID:           input.RequestTypeID,
		PriorityID:              input.PriorityID,
		Status:                  model.TaskStatusPending,
		Comments:                input.Comments,
		Assignees:               model.StringList(input.Assignees),
		EstimatedCompletionDate: estimated,
		TargetCompletionDate:    targetDateFor(estimated, input.TargetCompletionDate, category),
		ShopID:                  input.ShopID,
		IsDuplicate:             input.IsDuplicate,
		DuplicateJustification:  input.DuplicateJustification,
		CreatedBy:               creatorID,
		IsMandatory:             input.IsMandatory,
		RecordStatus:            model.RecordStatusActive,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, serverError("create task: %v", err)
	}

	if task.Assignees.Assigned() {
		s.notifications.NotifyAssignees(ctx, task.ID, task.Assignees)
	}
	return task, nil
}

// Update replaces the task's fields. A transition into the completed state
// triggers the archival migration; only a transition, not the value, so
// re-submitting a completed status is a migration no-op.
func (s *TaskService) Update(ctx context.Context, taskID uint, actorName string, input TaskInput) (*UpdateOutcome, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task %d not found", taskID)
	}
	if err != nil {
		return nil, serverError("load task: %v", err)
	}

	if input.Status != "" && !input.Status.Valid() {
		return nil, invalid("unknown status %q", input.Status)
	}
	// Cancelled is terminal; a cancelled task never rejoins the workflow.
	if task.Status == model.TaskStatusCancelled {
		return nil, invalid("task %d is cancelled", taskID)
	}
	if _, err := s.validateReferences(ctx, input); err != nil {
		return nil, err
	}

	previousStatus := task.Status
	previousAssignees := task.Assignees

	task.SerialNumber = input.SerialNumber
	task.PartNumber = input.PartNumber
	task.PoNumber = input.PoNumber
	task.Description = input.Description
	task.CategoryID = input.CategoryID
	task.SubTypeID = input.SubTypeID
	task.RequestTypeID = input.RequestTypeID
	task.PriorityID = input.PriorityID
	if input.Status != "" {
		task.Status = input.Status
	}
	task.Comments = input.Comments
	task.Assignees = model.StringList(input.Assignees)
	if !input.EstimatedCompletionDate.IsZero() {
		task.EstimatedCompletionDate = input.EstimatedCompletionDate
	}
	task.TargetCompletionDate = input.TargetCompletionDate
	task.ActualCompletionDate = input.ActualCompletionDate
	task.ShopID = input.ShopID
	task.IsDuplicate = input.IsDuplicate
	task.DuplicateJustification = input.DuplicateJustification
	task.IsMandatory = input.IsMandatory
	task.UpdatedAt = s.now().UTC()

	statusChanged := task.Status != previousStatus
	assigneesChanged := !task.Assignees.Equal(previousAssignees)

	if task.Status == model.TaskStatusCompleted && previousStatus != model.TaskStatusCompleted {
		archived, err := s.archive.MoveToCompleted(ctx, task)
		if err != nil {
			return nil, err
		}
		s.notifications.NotifyStatusChange(ctx, task, task.Status, actorName)
		return &UpdateOutcome{Task: task, MovedToArchive: true, CompletedTask: archived}, nil
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, serverError("update task: %v", err)
	}

	if statusChanged {
		s.notifications.NotifyStatusChange(ctx, task, task.Status, actorName)
	}
	if assigneesChanged && task.Assignees.Assigned() {
		s.notifications.NotifyAssignees(ctx, task.ID, task.Assignees)
	}
	return &UpdateOutcome{Task: task}, nil
}

// Cancel moves an active task to the cancelled terminal state, recording
// who cancelled it and why.
func (s *TaskService) Cancel(ctx context.Context, taskID, cancelledBy uint, reason string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task %d not found", taskID)
	}
	if err != nil {
		return nil, serverError("load task: %v", err)
	}
	if task.Status == model.TaskStatusCompleted || task.Status == model.TaskStatusCancelled {
		return nil, invalid("task %d is already %s", taskID, task.Status)
	}

	now := s.now().UTC()
	task.Status = model.TaskStatusCancelled
	task.CancelledBy = &cancelledBy
	task.CancellationReason = reason
	task.CancelledAt = &now
	task.UpdatedAt = now
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, serverError("cancel task: %v", err)
	}
	return task, nil
}

// Delete is logical only: the row is marked deleted, never removed.
func (s *TaskService) Delete(ctx context.Context, taskID uint) error {
	err := s.tasks.SoftDelete(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("task %d not found", taskID)
	}
	if err != nil {
		return serverError("delete task: %v", err)
	}
	return nil
}

func (s *TaskService) Get(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task %d not found", taskID)
	}
	if err != nil {
		return nil, serverError("load task: %v", err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, int64, error) {
	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, 0, serverError("list tasks: %v", err)
	}
	return tasks, total, nil
}

// AddComment appends an immutable comment under the task.
func (s *TaskService) AddComment(ctx context.Context, taskID, authorID uint, content string) (*model.TaskComment, error) {
	if content == "" {
		return nil, invalid("comment content is required")
	}
	if _, err := s.Get(ctx, taskID); err != nil {
		return nil, err
	}
	comment := &model.TaskComment{
		TaskID:       taskID,
		AuthorID:     authorID,
		Content:      content,
		RecordStatus: model.RecordStatusActive,
	}
	if err := s.tasks.AddComment(ctx, comment); err != nil {
		return nil, serverError("add comment: %v", err)
	}
	return comment, nil
}

func (s *TaskService) Comments(ctx context.Context, taskID uint) ([]model.TaskComment, error) {
	comments, err := s.tasks.Comments(ctx, taskID)
	if err != nil {
		return nil, serverError("list comments: %v", err)
	}
	return comments, nil
}

// AddAttachment records file metadata under the task; the bytes live in
// external storage outside this service.
func (s *TaskService) AddAttachment(ctx context.Context, taskID, uploadedBy uint, fileName, filePath, fileType string, fileSize int64) (*model.TaskAttachment, error) {
	if fileName == "" || filePath == "" {
		return nil, invalid("file name and path are required")
	}
	if _, err := s.Get(ctx, taskID); err != nil {
		return nil, err
	}
	attachment := &model.TaskAttachment{
		TaskID:       taskID,
		FileName:     fileName,
		FilePath:     filePath,
		FileType:     fileType,
		FileSize:     fileSize,
		UploadedBy:   uploadedBy,
		UploadedAt:   s.now().UTC(),
		RecordStatus: model.RecordStatusActive,
	}
	if err := s.tasks.AddAttachment(ctx, attachment); err != nil {
		return nil, serverError("add attachment: %v", err)
	}
	return attachment, nil
}

func (s *TaskService) Attachments(ctx context.Context, taskID uint) ([]model.TaskAttachment, error) {
	attachments, err := s.tasks.Attachments(ctx, taskID)
	if err != nil {
		return nil, serverError("list attachments: %v", err)
	}
	return attachments, nil
}
