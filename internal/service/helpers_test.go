package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/notify"
	"maintenance-tracker/internal/repository"
)

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	tasks         *repository.TaskRepository
	completed     *repository.CompletedTaskRepository
	lookups       *repository.LookupRepository
	notifications *NotificationService
	archive       *ArchiveService
	taskSvc       *TaskService
	amendments    *AmendmentService

	category model.Category
	priority model.Priority
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		tasks:     repository.NewTaskRepository(db),
		completed: repository.NewCompletedTaskRepository(db),
		lookups:   repository.NewLookupRepository(db),
	}
	env.notifications = NewNotificationService(repository.NewNotificationRepository(db), env.users, notify.NopSender{})
	env.archive = NewArchiveService(db, env.tasks, env.completed)
	env.taskSvc = NewTaskService(env.tasks, env.lookups, env.archive, env.notifications)
	env.amendments = NewAmendmentService(db, env.tasks, env.users, env.notifications, 1, 1)

	env.category = model.Category{Name: "AOG & CSD", TargetDays: 5, RecordStatus: model.RecordStatusActive}
	require.NoError(t, env.lookups.SaveCategory(context.Background(), &env.category))
	env.priority = model.Priority{LevelName: "Critical", OrderRank: 1, RecordStatus: model.RecordStatusActive}
	require.NoError(t, env.lookups.SavePriority(context.Background(), &env.priority))

	return env
}

func (env *testEnv) createUser(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "User " + username,
		Role:         role,
		Status:       model.UserStatusActive,
		RecordStatus: model.RecordStatusActive,
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	return user
}

func (env *testEnv) taskInput() TaskInput {
	return TaskInput{
		Description:             "Replace hydraulic pump",
		CategoryID:              env.category.ID,
		PriorityID:              env.priority.ID,
		EstimatedCompletionDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
