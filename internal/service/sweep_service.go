package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
)

// SweepService runs the periodic overdue scan: every active task whose
// target date has passed gets a reminder to its creator and assignees.
type SweepService struct {
	tasks         *repository.TaskRepository
	notifications *NotificationService
	now           func() time.Time
}

func NewSweepService(tasks *repository.TaskRepository, notifications *NotificationService) *SweepService {
	return &SweepService{
		tasks:         tasks,
		notifications: notifications,
		now:           time.Now,
	}
}

// SweepOverdue notifies about every overdue task. Returns how many tasks
// were flagged; notification failures are logged inside the notifier and
// never abort the sweep.
func (s *SweepService) SweepOverdue(ctx context.Context) (int, error) {
	now := s.now().UTC()
	overdue, err := s.tasks.ListOverdue(ctx, now)
	if err != nil {
		return 0, serverError("list overdue tasks: %v", err)
	}

	for i := range overdue {
		task := &overdue[i]
		days := int(now.Sub(*task.TargetCompletionDate).Hours() / 24)
		message := fmt.Sprintf("Task #%d is overdue by %d day(s): %s", task.ID, days, task.Description)
		s.notifications.NotifyUser(ctx, task.CreatedBy, message)
		if task.Assignees.Assigned() {
			s.notifications.MessageAssignees(ctx, task.Assignees, message)
		}
	}
	if len(overdue) > 0 {
		log.Printf("[info] overdue sweep flagged %d task(s)", len(overdue))
	}
	return len(overdue), nil
}

// Overdue lists overdue tasks without sending anything. Used by the
// reporting endpoints.
func (s *SweepService) Overdue(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.tasks.ListOverdue(ctx, s.now().UTC())
	if err != nil {
		return nil, serverError("list overdue tasks: %v", err)
	}
	return tasks, nil
}
