package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
)

// TaskFilter narrows task listings. Zero values mean "no constraint".
// A negative PageSize disables pagination.
type TaskFilter struct {
	CategoryID *uint
	Status     model.TaskStatus
	PriorityID *uint
	CreatedBy  *uint
	ShopID     *uint
	Search     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// TaskRepository handles CRUD for active-store tasks and their children.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID returns the active-store task or gorm.ErrRecordNotFound if the
// row is absent or soft-deleted.
func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Scopes(active).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// SoftDelete marks the task deleted. The row stays in the active store for
// audit; it just stops appearing in reads.
func (r *TaskRepository) SoftDelete(ctx context.Context, taskID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Scopes(active).
		Where("id = ?", taskID).
		Update("record_status", model.RecordStatusDeleted)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page of active tasks matching the filter plus the total
// match count.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{}).Scopes(active)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PriorityID != nil {
		query = query.Where("priority_id = ?", *filter.PriorityID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description LIKE ? OR serial_number LIKE ? OR part_number LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query = query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize))

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListOverdue returns active tasks whose target date has passed and that
// are not in a terminal state.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("target_completion_date IS NOT NULL AND target_completion_date < ?", now).
		Where("status NOT IN ?", []model.TaskStatus{model.TaskStatusCompleted, model.TaskStatusCancelled}).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) AddComment(ctx context.Context, comment *model.TaskComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *TaskRepository) Comments(ctx context.Context, taskID uint) ([]model.TaskComment, error) {
	var comments []model.TaskComment
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *TaskRepository) AddAttachment(ctx context.Context, attachment *model.TaskAttachment) error {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (r *TaskRepository) Attachments(ctx context.Context, taskID uint) ([]model.TaskAttachment, error) {
	var attachments []model.TaskAttachment
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("task_id = ?", taskID).
		Order("uploaded_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return attachments, nil
}

// DeleteChildren hard-deletes all comment and attachment rows of a task.
// Used only by the archival migration after the copies are in place.
func (r *TaskRepository) DeleteChildren(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&model.TaskComment{}).Error; err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&model.TaskAttachment{}).Error; err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}
	return nil
}
