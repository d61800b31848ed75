package service

import (
	"context"
	"time"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
)

// UserMetrics summarizes one user's workload. Completed work lives in the
// archive store, so the completed count comes from there.
type UserMetrics struct {
	UserID         uint    `json:"user_id"`
	FullName       string  `json:"full_name"`
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	PendingTasks   int64   `json:"pending_tasks"`
	OverdueTasks   int64   `json:"overdue_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// DashboardMetrics is the system-wide rollup.
type DashboardMetrics struct {
	ActiveTasks    int64            `json:"active_tasks"`
	CompletedTasks int64            `json:"completed_tasks"`
	OverdueTasks   int64            `json:"overdue_tasks"`
	ByStatus       map[string]int64 `json:"by_status"`
}

// PerformanceService computes workload metrics across the active and
// archive stores. All reads go through the guard's visibility rules.
type PerformanceService struct {
	tasks     *repository.TaskRepository
	completed *repository.CompletedTaskRepository
	users     *repository.UserRepository
	guard     *auth.Guard
	now       func() time.Time
}

func NewPerformanceService(tasks *repository.TaskRepository, completed *repository.CompletedTaskRepository, users *repository.UserRepository, guard *auth.Guard) *PerformanceService {
	return &PerformanceService{
		tasks:     tasks,
		completed: completed,
		users:     users,
		guard:     guard,
		now:       time.Now,
	}
}

// ForUser computes metrics for one user's created tasks.
func (s *PerformanceService) ForUser(ctx context.Context, viewerID, targetID uint) (*UserMetrics, error) {
	if !s.guard.CanViewPerformance(ctx, viewerID, &targetID) {
		return nil, unauthorized("not allowed to view this user's performance")
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, notFound("user %d not found", targetID)
	}

	active, activeTotal, err := s.tasks.List(ctx, repository.TaskFilter{CreatedBy: &targetID, PageSize: -1})
	if err != nil {
		return nil, serverError("list tasks: %v", err)
	}
	_, completedTotal, err := s.completed.List(ctx, repository.CompletedTaskFilter{CreatedBy: &targetID, PageSize: -1})
	if err != nil {
		return nil, serverError("list completed tasks: %v", err)
	}

	now := s.now().UTC()
	metrics := &UserMetrics{
		UserID:         target.ID,
		FullName:       target.FullName,
		TotalTasks:     activeTotal + completedTotal,
		CompletedTasks: completedTotal,
	}
	for i := range active {
		task := &active[i]
		if task.Status == model.TaskStatusPending || task.Status == model.TaskStatusInProgress {
			metrics.PendingTasks++
		}
		if task.Status != model.TaskStatusCancelled &&
			task.TargetCompletionDate != nil && task.TargetCompletionDate.Before(now) {
			metrics.OverdueTasks++
		}
	}
	if metrics.TotalTasks > 0 {
		metrics.CompletionRate = float64(metrics.CompletedTasks) / float64(metrics.TotalTasks)
	}
	return metrics, nil
}

// Dashboard aggregates across every user; it needs the reporting capability.
func (s *PerformanceService) Dashboard(ctx context.Context) (*DashboardMetrics, error) {
	active, activeTotal, err := s.tasks.List(ctx, repository.TaskFilter{PageSize: -1})
	if err != nil {
		return nil, serverError("list tasks: %v", err)
	}
	_, completedTotal, err := s.completed.List(ctx, repository.CompletedTaskFilter{PageSize: -1})
	if err != nil {
		return nil, serverError("list completed tasks: %v", err)
	}

	now := s.now().UTC()
	metrics := &DashboardMetrics{
		ActiveTasks:    activeTotal,
		CompletedTasks: completedTotal,
		ByStatus:       make(map[string]int64),
	}
	for i := range active {
		task := &active[i]
		metrics.ByStatus[string(task.Status)]++
		if task.Status != model.TaskStatusCancelled &&
			task.TargetCompletionDate != nil && task.TargetCompletionDate.Before(now) {
			metrics.OverdueTasks++
		}
	}
	return metrics, nil
}

// DashboardFor is Dashboard behind the viewer's report permission.
func (s *PerformanceService) DashboardFor(ctx context.Context, viewerID uint) (*DashboardMetrics, error) {
	if !s.guard.HasPermission(ctx, viewerID, auth.PermViewReports) {
		return nil, unauthorized("not allowed to view reports")
	}
	return s.Dashboard(ctx)
}
