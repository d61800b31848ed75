package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
)

// CompletedTaskFilter narrows archive listings. A negative PageSize
// disables pagination.
type CompletedTaskFilter struct {
	CategoryID *uint
	PriorityID *uint
	CreatedBy  *uint
	Search     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// CompletedTaskRepository handles the archive store.
type CompletedTaskRepository struct {
	db *gorm.DB
}

func NewCompletedTaskRepository(db *gorm.DB) *CompletedTaskRepository {
	return &CompletedTaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *CompletedTaskRepository) WithTx(tx *gorm.DB) *CompletedTaskRepository {
	return &CompletedTaskRepository{db: tx}
}

func (r *CompletedTaskRepository) Create(ctx context.Context, task *model.CompletedTask) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create completed task: %w", err)
	}
	return nil
}

// FindByID returns the archive row or gorm.ErrRecordNotFound if absent or
// soft-deleted.
func (r *CompletedTaskRepository) FindByID(ctx context.Context, completedTaskID uint) (*model.CompletedTask, error) {
	var task model.CompletedTask
	if err := r.db.WithContext(ctx).Scopes(active).First(&task, completedTaskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByOriginalTaskID locates the archive row for an active-store task id.
func (r *CompletedTaskRepository) FindByOriginalTaskID(ctx context.Context, originalTaskID uint) (*model.CompletedTask, error) {
	var task model.CompletedTask
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("original_task_id = ?", originalTaskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *CompletedTaskRepository) List(ctx context.Context, filter CompletedTaskFilter) ([]model.CompletedTask, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.CompletedTask{}).Scopes(active)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.PriorityID != nil {
		query = query.Where("priority_id = ?", *filter.PriorityID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description LIKE ? OR serial_number LIKE ? OR part_number LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("completed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("completed_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count completed tasks: %w", err)
	}

	query = query.Order("completed_at DESC").Scopes(paginate(filter.Page, filter.PageSize))

	var tasks []model.CompletedTask
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list completed tasks: %w", err)
	}
	return tasks, total, nil
}

// SoftDelete marks the archive row deleted (used on reopen and on explicit
// archive deletion).
func (r *CompletedTaskRepository) SoftDelete(ctx context.Context, completedTaskID uint) error {
	res := r.db.WithContext(ctx).Model(&model.CompletedTask{}).
		Scopes(active).
		Where("id = ?", completedTaskID).
		Update("record_status", model.RecordStatusDeleted)
	if res.Error != nil {
		return fmt.Errorf("delete completed task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CompletedTaskRepository) AddComment(ctx context.Context, comment *model.CompletedTaskComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create completed comment: %w", err)
	}
	return nil
}

func (r *CompletedTaskRepository) Comments(ctx context.Context, completedTaskID uint) ([]model.CompletedTaskComment, error) {
	var comments []model.CompletedTaskComment
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("completed_task_id = ?", completedTaskID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list completed comments: %w", err)
	}
	return comments, nil
}

func (r *CompletedTaskRepository) AddAttachment(ctx context.Context, attachment *model.CompletedTaskAttachment) error {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return fmt.Errorf("create completed attachment: %w", err)
	}
	return nil
}

func (r *CompletedTaskRepository) Attachments(ctx context.Context, completedTaskID uint) ([]model.CompletedTaskAttachment, error) {
	var attachments []model.CompletedTaskAttachment
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("completed_task_id = ?", completedTaskID).
		Order("uploaded_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("list completed attachments: %w", err)
	}
	return attachments, nil
}
