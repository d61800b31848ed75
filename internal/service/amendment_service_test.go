package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-tracker/internal/model"
)

func TestRequestAmendment(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	amended, err := env.amendments.Request(ctx, task.ID, creator.ID, "wrong part number recorded")
	require.NoError(t, err)

	assert.True(t, amended.AmendmentRequest)
	assert.Equal(t, model.AmendmentStatusPendingTLReview, amended.AmendmentStatus)
	assert.Equal(t, "wrong part number recorded", amended.RevisionNotes)
	assert.True(t, amended.ShowRevisionAlert)
}

func TestRequestAmendmentRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestRequestAmendmentBlockedWhileOpen(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "first request")
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "second request")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestRejectClearsFlagsAndAllowsNewRequest(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	reviewer := env.createUser(t, "tl1", model.RoleTeamLeader)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "initial reason")
	require.NoError(t, err)

	rejected, err := env.amendments.Reject(ctx, task.ID, reviewer.ID, "insufficient detail")
	require.NoError(t, err)
	assert.False(t, rejected.AmendmentRequest)
	assert.False(t, rejected.ShowRevisionAlert)
	assert.Equal(t, model.AmendmentStatusRejected, rejected.AmendmentStatus)
	assert.Contains(t, rejected.RevisionNotes, "TL Review: insufficient detail")

	// Rejection reopens eligibility.
	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "with more detail this time")
	require.NoError(t, err)
}

func TestApproveKeepsRequestMarker(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	reviewer := env.createUser(t, "tl1", model.RoleTeamLeader)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "date slipped")
	require.NoError(t, err)

	approved, err := env.amendments.Approve(ctx, task.ID, reviewer.ID, "")
	require.NoError(t, err)
	assert.True(t, approved.AmendmentRequest)
	assert.False(t, approved.ShowRevisionAlert)
	assert.Equal(t, model.AmendmentStatusApproved, approved.AmendmentStatus)
	require.NotNil(t, approved.AmendmentReviewerID)
	assert.Equal(t, reviewer.ID, *approved.AmendmentReviewerID)
}

func TestReviewRequiresMatchingRole(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	director := env.createUser(t, "director1", model.RoleDirector)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "needs amending")
	require.NoError(t, err)

	// A pending request belongs to Team Leaders; even a Director cannot
	// short-circuit it, and the requester certainly cannot.
	_, err = env.amendments.Approve(ctx, task.ID, director.ID, "")
	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))

	_, err = env.amendments.Approve(ctx, task.ID, creator.ID, "")
	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))
}

func TestForwardHandsDecisionToDirector(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	teamLeader := env.createUser(t, "tl1", model.RoleTeamLeader)
	director := env.createUser(t, "director1", model.RoleDirector)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, task.ID, creator.ID, "major scope change")
	require.NoError(t, err)

	forwarded, err := env.amendments.ForwardToDirector(ctx, task.ID, teamLeader.ID, "above my authority")
	require.NoError(t, err)
	assert.Equal(t, model.AmendmentStatusForwardedToDirector, forwarded.AmendmentStatus)
	assert.True(t, forwarded.AmendmentRequest)

	// Once forwarded, the Team Leader is out of the loop.
	_, err = env.amendments.Approve(ctx, task.ID, teamLeader.ID, "")
	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))

	approved, err := env.amendments.Approve(ctx, task.ID, director.ID, "go ahead")
	require.NoError(t, err)
	assert.Equal(t, model.AmendmentStatusApproved, approved.AmendmentStatus)
	assert.Contains(t, approved.RevisionNotes, "Director Review: go ahead")
}

func TestReviewWithoutOpenRequest(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	reviewer := env.createUser(t, "tl1", model.RoleTeamLeader)
	ctx := context.Background()

	task, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Approve(ctx, task.ID, reviewer.ID, "")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestRequiresDirectorApproval(t *testing.T) {
	env := newTestEnv(t)

	assert.True(t, env.amendments.RequiresDirectorApproval(1, 99))
	assert.True(t, env.amendments.RequiresDirectorApproval(99, 1))
	assert.False(t, env.amendments.RequiresDirectorApproval(99, 99))
}

func TestPendingQueuesByRole(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "engineer1", model.RoleEngineer)
	teamLeader := env.createUser(t, "tl1", model.RoleTeamLeader)
	director := env.createUser(t, "director1", model.RoleDirector)
	ctx := context.Background()

	first, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)
	second, err := env.taskSvc.Create(ctx, creator.ID, env.taskInput())
	require.NoError(t, err)

	_, err = env.amendments.Request(ctx, first.ID, creator.ID, "reason one")
	require.NoError(t, err)
	_, err = env.amendments.Request(ctx, second.ID, creator.ID, "reason two")
	require.NoError(t, err)
	_, err = env.amendments.ForwardToDirector(ctx, second.ID, teamLeader.ID, "")
	require.NoError(t, err)

	tlQueue, err := env.amendments.Pending(ctx, teamLeader.ID)
	require.NoError(t, err)
	require.Len(t, tlQueue, 1)
	assert.Equal(t, first.ID, tlQueue[0].ID)

	directorQueue, err := env.amendments.Pending(ctx, director.ID)
	require.NoError(t, err)
	require.Len(t, directorQueue, 1)
	assert.Equal(t, second.ID, directorQueue[0].ID)

	ownQueue, err := env.amendments.Pending(ctx, creator.ID)
	require.NoError(t, err)
	assert.Len(t, ownQueue, 2)
}
