package model

import "time"

// CompletedTask is the archive-store twin of a Task, created once when a
// task transitions into the completed state. It owns copies of the task's
// comments and attachments so the archive stays self-contained even if the
// originating active row is later purged.
type CompletedTask struct {
	ID             uint `gorm:"primaryKey"`
	OriginalTaskID uint `gorm:"index;not null"`

	SerialNumber string `gorm:"size:100"`
	PartNumber   string `gorm:"size:100"`
	PoNumber     string `gorm:"size:100"`
	Description  string `gorm:"not null"`

	CategoryID    uint `gorm:"index;not null"`
	SubTypeID     *uint
	RequestTypeID *uint
	PriorityID    uint `gorm:"not null"`

	Status    TaskStatus `gorm:"size:20"`
	Comments  string
	Assignees StringList `gorm:"type:text"`

	EstimatedCompletionDate time.Time
	TargetCompletionDate    *time.Time
	ActualCompletionDate    *time.Time

	AmendmentRequest    bool
	AmendmentStatus     AmendmentStatus `gorm:"size:30"`
	AmendmentReviewerID *uint
	RevisionNotes       string
	ShowRevisionAlert   bool

	IsDuplicate            bool
	DuplicateJustification string

	ShopID      *uint
	CreatedBy   uint `gorm:"index;not null"`
	IsMandatory bool

	CancelledBy        *uint
	CancellationReason string
	CancelledAt        *time.Time

	TaskCreatedAt      time.Time
	TaskUpdatedAt      time.Time
	CompletedAt        time.Time
	MovedToCompletedAt time.Time

	RecordStatus RecordStatus `gorm:"size:10;index;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CompletedTaskComment is the archive copy of a task comment. Author and
// timestamps are preserved from the source row; the identity is not.
type CompletedTaskComment struct {
	ID              uint `gorm:"primaryKey"`
	CompletedTaskID uint `gorm:"index;not null"`
	AuthorID        uint `gorm:"not null"`
	Content         string
	RecordStatus    RecordStatus `gorm:"size:10;default:active"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CompletedTaskAttachment is the archive copy of a task attachment row.
type CompletedTaskAttachment struct {
	ID              uint   `gorm:"primaryKey"`
	CompletedTaskID uint   `gorm:"index;not null"`
	FileName        string `gorm:"size:255;not null"`
	FilePath        string `gorm:"size:500;not null"`
	FileType        string `gorm:"size:100"`
	FileSize        int64
	UploadedBy      uint
	UploadedAt      time.Time
	RecordStatus    RecordStatus `gorm:"size:10;default:active"`
}
