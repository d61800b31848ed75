package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
)

// AmendmentService runs the review sub-workflow nested inside a task.
// Request and review both execute inside a transaction with a fresh load
// of the task, so two racing reviewers cannot both satisfy the
// "must be pending" precondition.
type AmendmentService struct {
	db            *gorm.DB
	tasks         *repository.TaskRepository
	users         *repository.UserRepository
	notifications *NotificationService

	// Amendments on top-priority or AOG-category tasks need a Director's
	// sign-off; these ids identify that priority and category.
	criticalPriorityID uint
	aogCategoryID      uint
}

func NewAmendmentService(db *gorm.DB, tasks *repository.TaskRepository, users *repository.UserRepository, notifications *NotificationService, criticalPriorityID, aogCategoryID uint) *AmendmentService {
	return &AmendmentService{
		db:                 db,
		tasks:              tasks,
		users:              users,
		notifications:      notifications,
		criticalPriorityID: criticalPriorityID,
		aogCategoryID:      aogCategoryID,
	}
}

// RequiresDirectorApproval reports whether an amendment on a task with the
// given references must be routed to a Director. Pure: same inputs, same
// answer, no side effects. Used for UI routing only, never to gate the
// state machine.
func (s *AmendmentService) RequiresDirectorApproval(priorityID, categoryID uint) bool {
	return priorityID == s.criticalPriorityID || categoryID == s.aogCategoryID
}

// Request opens an amendment on a task. Fails while a previous request is
// still open (the flag clears on rejection, or when the workflow is
// otherwise closed out).
func (s *AmendmentService) Request(ctx context.Context, taskID, requesterID uint, reason string) (*model.Task, error) {
	if reason == "" {
		return nil, invalid("amendment reason is required")
	}

	requester, err := s.users.FindByID(ctx, requesterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("requester %d not found", requesterID)
	}
	if err != nil {
		return nil, serverError("load requester: %v", err)
	}

	var task *model.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := s.tasks.WithTx(tx).FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if loaded.AmendmentRequest {
			return invalid("an amendment request is already open for task %d", taskID)
		}

		loaded.AmendmentRequest = true
		loaded.AmendmentStatus = model.AmendmentStatusPendingTLReview
		loaded.RevisionNotes = reason
		loaded.ShowRevisionAlert = true
		if err := s.tasks.WithTx(tx).Save(ctx, loaded); err != nil {
			return err
		}
		task = loaded
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task %d not found", taskID)
	}
	if err != nil {
		var domainErr *Error
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, serverError("request amendment: %v", err)
	}

	s.notifications.NotifyRole(ctx, model.RoleTeamLeader,
		fmt.Sprintf("Amendment requested on task #%d by %s: %s", taskID, requester.FullName, reason))
	return task, nil
}

// reviewerRoleFor returns which role may decide the amendment in its current
// state: a pending request belongs to Team Leaders, a forwarded one to the
// Director.
func reviewerRoleFor(status model.AmendmentStatus) (model.Role, error) {
	switch status {
	case model.AmendmentStatusPendingTLReview:
		return model.RoleTeamLeader, nil
	case model.AmendmentStatusForwardedToDirector:
		return model.RoleDirector, nil
	default:
		return "", invalid("no amendment is awaiting review")
	}
}

// Review applies a reviewer's decision. Approve closes the alert but keeps
// the request flag as a historical marker; Reject clears both, making the
// task eligible for a new request; ForwardToDirector hands the same
// decision point to the Director.
func (s *AmendmentService) Review(ctx context.Context, taskID, reviewerID uint, decision model.AmendmentStatus, notes string) (*model.Task, error) {
	if !decision.Decision() {
		return nil, invalid("invalid amendment decision %q", decision)
	}

	reviewer, err := s.users.FindByID(ctx, reviewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("reviewer %d not found", reviewerID)
	}
	if err != nil {
		return nil, serverError("load reviewer: %v", err)
	}

	var task *model.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := s.tasks.WithTx(tx).FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !loaded.AmendmentRequest {
			return invalid("no amendment is awaiting review")
		}

		requiredRole, err := reviewerRoleFor(loaded.AmendmentStatus)
		if err != nil {
			return err
		}
		if reviewer.Role != requiredRole || !reviewer.Active() {
			return unauthorized("amendment on task %d must be reviewed by a %s", taskID, requiredRole)
		}
		if loaded.AmendmentStatus == model.AmendmentStatusForwardedToDirector &&
			decision == model.AmendmentStatusForwardedToDirector {
			return invalid("amendment is already with the Director")
		}

		reviewLabel := "TL Review"
		if reviewer.Role == model.RoleDirector {
			reviewLabel = "Director Review"
		}
		if notes != "" {
			loaded.RevisionNotes = fmt.Sprintf("%s\n\n%s: %s", loaded.RevisionNotes, reviewLabel, notes)
		}

		loaded.AmendmentStatus = decision
		loaded.AmendmentReviewerID = &reviewer.ID
		switch decision {
		case model.AmendmentStatusApproved:
			loaded.ShowRevisionAlert = false
		case model.AmendmentStatusRejected:
			loaded.AmendmentRequest = false
			loaded.ShowRevisionAlert = false
		}

		if err := s.tasks.WithTx(tx).Save(ctx, loaded); err != nil {
			return err
		}
		task = loaded
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task %d not found", taskID)
	}
	if err != nil {
		var domainErr *Error
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, serverError("review amendment: %v", err)
	}

	outcome := map[model.AmendmentStatus]string{
		model.AmendmentStatusApproved:            "approved",
		model.AmendmentStatusRejected:            "rejected",
		model.AmendmentStatusForwardedToDirector: "forwarded to the Director",
	}[decision]
	s.notifications.NotifyUser(ctx, task.CreatedBy,
		fmt.Sprintf("Amendment on task #%d was %s by %s", taskID, outcome, reviewer.FullName))
	return task, nil
}

// Approve, Reject and ForwardToDirector are the three decisions spelled
// out; each is just Review with a fixed outcome.
func (s *AmendmentService) Approve(ctx context.Context, taskID, reviewerID uint, notes string) (*model.Task, error) {
	return s.Review(ctx, taskID, reviewerID, model.AmendmentStatusApproved, notes)
}

func (s *AmendmentService) Reject(ctx context.Context, taskID, reviewerID uint, notes string) (*model.Task, error) {
	return s.Review(ctx, taskID, reviewerID, model.AmendmentStatusRejected, notes)
}

func (s *AmendmentService) ForwardToDirector(ctx context.Context, taskID, reviewerID uint, notes string) (*model.Task, error) {
	return s.Review(ctx, taskID, reviewerID, model.AmendmentStatusForwardedToDirector, notes)
}

// Pending lists tasks whose amendment awaits the viewer: Team Leaders see
// the pending queue, the Director sees forwarded ones, everyone else sees
// their own open requests.
func (s *AmendmentService) Pending(ctx context.Context, viewerID uint) ([]model.Task, error) {
	viewer, err := s.users.FindByID(ctx, viewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user %d not found", viewerID)
	}
	if err != nil {
		return nil, serverError("load user: %v", err)
	}

	query := s.db.WithContext(ctx).
		Where("record_status = ?", model.RecordStatusActive).
		Where("amendment_request = ?", true)

	switch viewer.Role {
	case model.RoleTeamLeader:
		query = query.Where("amendment_status = ?", model.AmendmentStatusPendingTLReview)
	case model.RoleDirector:
		query = query.Where("amendment_status = ?", model.AmendmentStatusForwardedToDirector)
	default:
		query = query.Where("created_by = ?", viewerID)
	}

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, serverError("list pending amendments: %v", err)
	}
	return tasks, nil
}
