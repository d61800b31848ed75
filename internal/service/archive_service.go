package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
)

// ArchiveService moves tasks between the active store and the completed
// archive. Both directions span several tables (task, completed task and
// the two comment/attachment families), so each runs inside one database
// transaction: callers never observe a task marked deleted without its
// archive twin, or the reverse.
type ArchiveService struct {
	db        *gorm.DB
	tasks     *repository.TaskRepository
	completed *repository.CompletedTaskRepository
	now       func() time.Time
}

func NewArchiveService(db *gorm.DB, tasks *repository.TaskRepository, completed *repository.CompletedTaskRepository) *ArchiveService {
	return &ArchiveService{
		db:        db,
		tasks:     tasks,
		completed: completed,
		now:       time.Now,
	}
}

// MoveToCompleted archives a task: it builds the CompletedTask copy, clones
// the task's comments and attachments as new archive-owned rows, marks the
// active row deleted and hard-deletes the original children. All or nothing.
func (s *ArchiveService) MoveToCompleted(ctx context.Context, task *model.Task) (*model.CompletedTask, error) {
	now := s.now().UTC()

	actualCompletion := task.ActualCompletionDate
	if actualCompletion == nil {
		completedAt := now.Truncate(24 * time.Hour)
		actualCompletion = &completedAt
	}

	archived := &model.CompletedTask{
		OriginalTaskID:          task.ID,
		SerialNumber:            task.SerialNumber,
		PartNumber:              task.PartNumber,
		PoNumber:                task.PoNumber,
		Description:             task.Description,
		CategoryID:              task.CategoryID,
		SubTypeID:               task.SubTypeID,
		RequestTypeID:           task.RequestTypeID,
		PriorityID:              task.PriorityID,
		Status:                  task.Status,
		Comments:                task.Comments,
		Assignees:               append(model.StringList(nil), task.Assignees...),
		EstimatedCompletionDate: task.EstimatedCompletionDate,
		TargetCompletionDate:    task.TargetCompletionDate,
		ActualCompletionDate:    actualCompletion,
		AmendmentRequest:        task.AmendmentRequest,
		AmendmentStatus:         task.AmendmentStatus,
		AmendmentReviewerID:     task.AmendmentReviewerID,
		RevisionNotes:           task.RevisionNotes,
		ShowRevisionAlert:       task.ShowRevisionAlert,
		IsDuplicate:             task.IsDuplicate,
		DuplicateJustification:  task.DuplicateJustification,
		ShopID:                  task.ShopID,
		CreatedBy:               task.CreatedBy,
		IsMandatory:             task.IsMandatory,
		CancelledBy:             task.CancelledBy,
		CancellationReason:      task.CancellationReason,
		CancelledAt:             task.CancelledAt,
		TaskCreatedAt:           task.CreatedAt,
		TaskUpdatedAt:           task.UpdatedAt,
		CompletedAt:             now,
		MovedToCompletedAt:      now,
		RecordStatus:            model.RecordStatusActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := s.tasks.WithTx(tx)
		completedRepo := s.completed.WithTx(tx)

		comments, err := taskRepo.Comments(ctx, task.ID)
		if err != nil {
			return err
		}
		attachments, err := taskRepo.Attachments(ctx, task.ID)
		if err != nil {
			return err
		}

		if err := completedRepo.Create(ctx, archived); err != nil {
			return err
		}

		for _, comment := range comments {
			copied := model.CompletedTaskComment{
				CompletedTaskID: archived.ID,
				AuthorID:        comment.AuthorID,
				Content:         comment.Content,
				RecordStatus:    model.RecordStatusActive,
				CreatedAt:       comment.CreatedAt,
				UpdatedAt:       comment.UpdatedAt,
			}
			if err := completedRepo.AddComment(ctx, &copied); err != nil {
				return err
			}
		}
		for _, attachment := range attachments {
			copied := model.CompletedTaskAttachment{
				CompletedTaskID: archived.ID,
				FileName:        attachment.FileName,
				FilePath:        attachment.FilePath,
				FileType:        attachment.FileType,
				FileSize:        attachment.FileSize,
				UploadedBy:      attachment.UploadedBy,
				UploadedAt:      attachment.UploadedAt,
				RecordStatus:    model.RecordStatusActive,
			}
			if err := completedRepo.AddAttachment(ctx, &copied); err != nil {
				return err
			}
		}

		task.RecordStatus = model.RecordStatusDeleted
		task.ActualCompletionDate = actualCompletion
		task.UpdatedAt = now
		if err := tx.Save(task).Error; err != nil {
			return fmt.Errorf("save task: %w", err)
		}

		return taskRepo.DeleteChildren(ctx, task.ID)
	})
	if err != nil {
		return nil, serverError("move task %d to completed: %v", task.ID, err)
	}
	return archived, nil
}

// Completed returns one archive row.
func (s *ArchiveService) Completed(ctx context.Context, completedTaskID uint) (*model.CompletedTask, error) {
	task, err := s.completed.FindByID(ctx, completedTaskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("completed task %d not found", completedTaskID)
	}
	if err != nil {
		return nil, serverError("load completed task: %v", err)
	}
	return task, nil
}

// CompletedByOriginalTask finds the archive row that a given active-store
// task id migrated into.
func (s *ArchiveService) CompletedByOriginalTask(ctx context.Context, originalTaskID uint) (*model.CompletedTask, error) {
	task, err := s.completed.FindByOriginalTaskID(ctx, originalTaskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("no completed task for original task %d", originalTaskID)
	}
	if err != nil {
		return nil, serverError("load completed task: %v", err)
	}
	return task, nil
}

// ListCompleted returns one page of the archive.
func (s *ArchiveService) ListCompleted(ctx context.Context, filter repository.CompletedTaskFilter) ([]model.CompletedTask, int64, error) {
	tasks, total, err := s.completed.List(ctx, filter)
	if err != nil {
		return nil, 0, serverError("list completed tasks: %v", err)
	}
	return tasks, total, nil
}

// DeleteCompleted soft-deletes an archive row.
func (s *ArchiveService) DeleteCompleted(ctx context.Context, completedTaskID uint) error {
	err := s.completed.SoftDelete(ctx, completedTaskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("completed task %d not found", completedTaskID)
	}
	if err != nil {
		return serverError("delete completed task: %v", err)
	}
	return nil
}

// CompletedComments returns the archived comments of a completed task.
func (s *ArchiveService) CompletedComments(ctx context.Context, completedTaskID uint) ([]model.CompletedTaskComment, error) {
	comments, err := s.completed.Comments(ctx, completedTaskID)
	if err != nil {
		return nil, serverError("list completed comments: %v", err)
	}
	return comments, nil
}

// CompletedAttachments returns the archived attachments of a completed task.
func (s *ArchiveService) CompletedAttachments(ctx context.Context, completedTaskID uint) ([]model.CompletedTaskAttachment, error) {
	attachments, err := s.completed.Attachments(ctx, completedTaskID)
	if err != nil {
		return nil, serverError("list completed attachments: %v", err)
	}
	return attachments, nil
}

// Reopen reinstates an archived task as a brand-new active task. The
// original task id is never reused: the only provenance is the revision
// note prefix and the OriginalTaskID kept on the now-deleted archive row.
func (s *ArchiveService) Reopen(ctx context.Context, completedTaskID uint) (*model.Task, error) {
	var reopened *model.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := s.tasks.WithTx(tx)
		completedRepo := s.completed.WithTx(tx)

		archived, err := completedRepo.FindByID(ctx, completedTaskID)
		if err != nil {
			return err
		}

		notes := fmt.Sprintf("Reopened from completed task #%d", archived.ID)
		if archived.RevisionNotes != "" {
			notes += "\n" + archived.RevisionNotes
		}

		task := &model.Task{
			SerialNumber:            archived.SerialNumber,
			PartNumber:              archived.PartNumber,
			PoNumber:                archived.PoNumber,
			Description:             archived.Description,
			CategoryID:              archived.CategoryID,
			SubTypeID:               archived.SubTypeID,
			RequestTypeID:           archived.RequestTypeID,
			PriorityID:              archived.PriorityID,
			Status:                  model.TaskStatusPending,
			Comments:                archived.Comments,
			Assignees:               append(model.StringList(nil), archived.Assignees...),
			EstimatedCompletionDate: archived.EstimatedCompletionDate,
			TargetCompletionDate:    archived.TargetCompletionDate,
			ActualCompletionDate:    nil,
			AmendmentRequest:        archived.AmendmentRequest,
			AmendmentStatus:         archived.AmendmentStatus,
			AmendmentReviewerID:     archived.AmendmentReviewerID,
			RevisionNotes:           notes,
			ShowRevisionAlert:       true,
			IsDuplicate:             archived.IsDuplicate,
			DuplicateJustification:  archived.DuplicateJustification,
			ShopID:                  archived.ShopID,
			CreatedBy:               archived.CreatedBy,
			IsMandatory:             archived.IsMandatory,
			RecordStatus:            model.RecordStatusActive,
		}
		if err := taskRepo.Create(ctx, task); err != nil {
			return err
		}

		comments, err := completedRepo.Comments(ctx, archived.ID)
		if err != nil {
			return err
		}
		for _, comment := range comments {
			copied := model.TaskComment{
				TaskID:       task.ID,
				AuthorID:     comment.AuthorID,
				Content:      comment.Content,
				RecordStatus: model.RecordStatusActive,
				CreatedAt:    comment.CreatedAt,
				UpdatedAt:    comment.UpdatedAt,
			}
			if err := taskRepo.AddComment(ctx, &copied); err != nil {
				return err
			}
		}

		attachments, err := completedRepo.Attachments(ctx, archived.ID)
		if err != nil {
			return err
		}
		for _, attachment := range attachments {
			copied := model.TaskAttachment{
				TaskID:       task.ID,
				FileName:     attachment.FileName,
				FilePath:     attachment.FilePath,
				FileType:     attachment.FileType,
				FileSize:     attachment.FileSize,
				UploadedBy:   attachment.UploadedBy,
				UploadedAt:   attachment.UploadedAt,
				RecordStatus: model.RecordStatusActive,
			}
			if err := taskRepo.AddAttachment(ctx, &copied); err != nil {
				return err
			}
		}

		if err := completedRepo.SoftDelete(ctx, archived.ID); err != nil {
			return err
		}

		reopened = task
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("completed task %d not found", completedTaskID)
	}
	if err != nil {
		return nil, serverError("reopen completed task %d: %v", completedTaskID, err)
	}
	return reopened, nil
}
