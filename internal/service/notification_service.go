package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/notify"
	"maintenance-tracker/internal/repository"
)

// NotificationService persists per-user notification rows and pushes them
// through the configured transport. Emission is fire-and-forget: failures
// are logged, never returned, so a state transition that already committed
// can never be aborted by its own notification.
type NotificationService struct {
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	sender        notify.Sender
}

func NewNotificationService(notifications *repository.NotificationRepository, users *repository.UserRepository, sender notify.Sender) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, sender: sender}
}

func (s *NotificationService) deliver(ctx context.Context, user *model.User, message string) {
	row := model.Notification{RecipientID: user.ID, Message: message}
	if err := s.notifications.Create(ctx, &row); err != nil {
		log.Printf("[warn] store notification for user %d: %v", user.ID, err)
	}
	if user.TelegramChatID == 0 {
		return
	}
	chatID := user.TelegramChatID
	go func() {
		if err := s.sender.Send(chatID, message); err != nil {
			log.Printf("[warn] push notification to user %d: %v", user.ID, err)
		}
	}()
}

// NotifyUser sends a message to one recipient, best effort.
func (s *NotificationService) NotifyUser(ctx context.Context, recipientID uint, message string) {
	user, err := s.users.FindByID(ctx, recipientID)
	if err != nil {
		log.Printf("[warn] notify user %d: %v", recipientID, err)
		return
	}
	s.deliver(ctx, user, message)
}

// NotifyRole fans one message out to every active holder of the role.
func (s *NotificationService) NotifyRole(ctx context.Context, role model.Role, message string) {
	users, err := s.users.ListActiveByRole(ctx, role)
	if err != nil {
		log.Printf("[warn] notify role %s: %v", role, err)
		return
	}
	for i := range users {
		s.deliver(ctx, &users[i], message)
	}
}

// NotifyAssignees tells each named engineer a task now points at them.
// Names that resolve to no active account are skipped.
func (s *NotificationService) NotifyAssignees(ctx context.Context, taskID uint, assignees model.StringList) {
	s.MessageAssignees(ctx, assignees, fmt.Sprintf("New task assigned to you: task #%d", taskID))
}

// MessageAssignees sends one message to every resolvable assignee.
func (s *NotificationService) MessageAssignees(ctx context.Context, assignees model.StringList, message string) {
	for _, name := range assignees {
		name = strings.TrimSpace(name)
		if name == "" || name == model.Unassigned {
			continue
		}
		user, err := s.users.FindByFullName(ctx, name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[warn] resolve assignee %q: %v", name, err)
			}
			continue
		}
		s.deliver(ctx, user, message)
	}
}

// NotifyStatusChange tells a task's creator and assignees about a workflow
// transition.
func (s *NotificationService) NotifyStatusChange(ctx context.Context, task *model.Task, newStatus model.TaskStatus, changedBy string) {
	message := fmt.Sprintf("Task #%d status changed to %s by %s", task.ID, newStatus, changedBy)
	s.NotifyUser(ctx, task.CreatedBy, message)
	s.MessageAssignees(ctx, task.Assignees, message)
}

// Unread returns the recipient's unread notifications.
func (s *NotificationService) Unread(ctx context.Context, userID uint) ([]model.Notification, error) {
	rows, err := s.notifications.ListUnread(ctx, userID)
	if err != nil {
		return nil, serverError("list notifications: %v", err)
	}
	return rows, nil
}

// MarkRead acknowledges one notification for its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	err := s.notifications.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("notification %d not found", notificationID)
	}
	if err != nil {
		return serverError("mark notification read: %v", err)
	}
	return nil
}

// MarkAllRead acknowledges everything unread for the recipient.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return serverError("mark notifications read: %v", err)
	}
	return nil
}
