package model

import "time"

// TaskStatus is the workflow state of an active task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusOnHold     TaskStatus = "on_hold"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is one of the known workflow states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusBlocked, TaskStatusOnHold, TaskStatusCancelled:
		return true
	}
	return false
}

// AmendmentStatus is the review state of a task's amendment sub-workflow.
// The empty value means no amendment has ever been requested.
type AmendmentStatus string

const (
	AmendmentStatusNone                AmendmentStatus = ""
	AmendmentStatusPendingTLReview     AmendmentStatus = "pending_tl_review"
	AmendmentStatusForwardedToDirector AmendmentStatus = "forwarded_to_director"
	AmendmentStatusApproved            AmendmentStatus = "approved"
	AmendmentStatusRejected            AmendmentStatus = "rejected"
)

// Decision reports whether s is a value a reviewer may set.
func (s AmendmentStatus) Decision() bool {
	switch s {
	case AmendmentStatusApproved, AmendmentStatusRejected, AmendmentStatusForwardedToDirector:
		return true
	}
	return false
}

// Task is a maintenance work-item in the active store.
type Task struct {
	ID           uint   `gorm:"primaryKey"`
	SerialNumber string `gorm:"size:100"`
	PartNumber   string `gorm:"size:100"`
	PoNumber     string `gorm:"size:100"`
	Description  string `gorm:"not null"`

	CategoryID    uint `gorm:"index;not null"`
	SubTypeID     *uint
	RequestTypeID *uint
	PriorityID    uint `gorm:"index;not null"`

	Status    TaskStatus `gorm:"size:20;default:pending"`
	Comments  string
	Assignees StringList `gorm:"type:text"`

	EstimatedCompletionDate time.Time
	TargetCompletionDate    *time.Time
	ActualCompletionDate    *time.Time

	AmendmentRequest    bool            `gorm:"default:false"`
	AmendmentStatus     AmendmentStatus `gorm:"size:30"`
	AmendmentReviewerID *uint
	RevisionNotes       string
	ShowRevisionAlert   bool `gorm:"default:false"`

	IsDuplicate            bool `gorm:"default:false"`
	DuplicateJustification string

	ShopID      *uint
	CreatedBy   uint `gorm:"index;not null"`
	IsMandatory bool `gorm:"default:false"`

	CancelledBy        *uint
	CancellationReason string
	CancelledAt        *time.Time

	RecordStatus RecordStatus `gorm:"size:10;index;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskComment is a child record owned by exactly one task. Comments are
// never edited after creation; on archival they are recreated under the
// completed task and the originals are removed.
type TaskComment struct {
	ID           uint `gorm:"primaryKey"`
	TaskID       uint `gorm:"index;not null"`
	AuthorID     uint `gorm:"not null"`
	Content      string
	RecordStatus RecordStatus `gorm:"size:10;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskAttachment is file metadata owned by exactly one task. The upload
// plumbing lives outside this service; only the metadata row is tracked.
type TaskAttachment struct {
	ID           uint   `gorm:"primaryKey"`
	TaskID       uint   `gorm:"index;not null"`
	FileName     string `gorm:"size:255;not null"`
	FilePath     string `gorm:"size:500;not null"`
	FileType     string `gorm:"size:100"`
	FileSize     int64
	UploadedBy   uint
	UploadedAt   time.Time
	RecordStatus RecordStatus `gorm:"size:10;default:active"`
}
