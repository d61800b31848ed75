package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-tracker/internal/model"
)

func TestCreateTaskDerivesTargetDate(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)

	task, err := env.taskSvc.Create(context.Background(), creator.ID, env.taskInput())
	require.NoError(t, err)

	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Equal(t, creator.ID, task.CreatedBy)
	require.NotNil(t, task.TargetCompletionDate)
	// Estimated 2025-01-01 plus the category's 5-day lead time.
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), task.TargetCompletionDate.UTC())
}

func TestCreateTaskExplicitTargetDateWins(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)

	explicit := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	input := env.taskInput()
	input.TargetCompletionDate = &explicit

	task, err := env.taskSvc.Create(context.Background(), creator.ID, input)
	require.NoError(t, err)
	require.NotNil(t, task.TargetCompletionDate)
	assert.Equal(t, explicit, task.TargetCompletionDate.UTC())
}

func TestCreateTaskNoLeadTimeFallsBackToEstimated(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)

	category := model.Category{Name: "Routine", TargetDays: 0, RecordStatus: model.RecordStatusActive}
	require.NoError(t, env.lookups.SaveCategory(context.Background(), &category))

	input := env.taskInput()
	input.CategoryID = category.ID
	task, err := env.taskSvc.Create(context.Background(), creator.ID, input)
	require.NoError(t, err)
	require.NotNil(t, task.TargetCompletionDate)
	assert.Equal(t, input.EstimatedCompletionDate, task.TargetCompletionDate.UTC())
}

func TestCreateTaskRejectsUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)

	input := env.taskInput()
	input.CategoryID = 9999
	_, err := env.taskSvc.Create(context.Background(), creator.ID, input)
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))

	input = env.taskInput()
	input.Description = ""
	_, err = env.taskSvc.Create(context.Background(), creator.ID, input)
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestUpdateToCompletedMigratesToArchive(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.taskSvc.AddComment(ctx, task.ID, creator.ID, "ordered the part")
	require.NoError(t, err)

	input := env.taskInput()
	input.Status = model.TaskStatusCompleted
	outcome, err := env.taskSvc.Update(ctx, task.ID, creator.FullName, input)
	require.NoError(t, err)
	require.True(t, outcome.MovedToArchive)
	require.NotNil(t, outcome.CompletedTask)

	archived := outcome.CompletedTask
	assert.Equal(t, task.ID, archived.OriginalTaskID)
	assert.Equal(t, task.Description, archived.Description)
	assert.Equal(t, task.CategoryID, archived.CategoryID)
	assert.NotNil(t, archived.ActualCompletionDate)

	// The active row is no longer visible.
	_, err = env.taskSvc.Get(ctx, task.ID)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	// Children moved with it.
	comments, err := env.archive.CompletedComments(ctx, archived.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "ordered the part", comments[0].Content)

	orphans, err := env.tasks.Comments(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestUpdateStaysActiveForOtherTransitions(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	input := env.taskInput()
	input.Status = model.TaskStatusInProgress
	outcome, err := env.taskSvc.Update(ctx, task.ID, creator.FullName, input)
	require.NoError(t, err)
	assert.False(t, outcome.MovedToArchive)
	assert.Equal(t, model.TaskStatusInProgress, outcome.Task.Status)

	loaded, err := env.taskSvc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, loaded.Status)
}

func TestCancelTask(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	cancelled, err := env.taskSvc.Cancel(ctx, task.ID, creator.ID, "duplicate of another work order")
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, creator.ID, *cancelled.CancelledBy)
	assert.NotNil(t, cancelled.CancelledAt)

	// A terminal task cannot be cancelled again.
	_, err = env.taskSvc.Cancel(ctx, task.ID, creator.ID, "again")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestDeleteTaskIsSoft(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	require.NoError(t, env.taskSvc.Delete(ctx, task.ID))

	_, err = env.taskSvc.Get(ctx, task.ID)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	// Deleting an already-deleted task reports not found, not success.
	err = env.taskSvc.Delete(ctx, task.ID)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	// The row itself is still there, just marked deleted.
	var raw model.Task
	require.NoError(t, env.db.First(&raw, task.ID).Error)
	assert.Equal(t, model.RecordStatusDeleted, raw.RecordStatus)
}
