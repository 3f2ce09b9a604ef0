package tasks

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusApproved   Status = "approved"
)

var nextStatus = map[Status]Status{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusCompleted,
	StatusCompleted:  StatusApproved,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusApproved:
		return true
	default:
		return false
	}
}

// Next returns the only status s may move to. Approved is final.
func (s Status) Next() (Status, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

const (
	DefaultColor = "#3B82F6"
	// DeadlineLayout is the wire format of deadlines.
	DeadlineLayout = "2006-01-02"

	maxTitleLength = 200
	maxDescLength  = 2000
)

type Task struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	FamilyID      string    `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"not null"`
	Description   string    `gorm:"type:text;not null"`
	AssigneeID    string    `gorm:"not null;index"`
	AssigneeColor string    `gorm:"type:varchar(16);not null"`
	CreatorID     string    `gorm:"not null"`
	CreatorColor  string    `gorm:"type:varchar(16);not null"`
	ApproverID    *string
	Deadline      time.Time `gorm:"type:date;not null"`
	Status        Status    `gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) Validate() error {
	if t.ID == "" || t.FamilyID == "" || !t.Status.IsValid() {
		return ErrCorruptRecord
	}
	return nil
}

type CreateTaskInput struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	AssigneeID    string `json:"assignee_id" validate:"required"`
	AssigneeColor string `json:"assignee_color" validate:"omitempty,hexcolor"`
	CreatorColor  string `json:"creator_color" validate:"omitempty,hexcolor"`
	Deadline      time.Time
}

// UpdateTaskInput changes only the fields that are set.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	AssigneeID    *string
	AssigneeColor *string `json:"assignee_color" validate:"omitempty,hexcolor"`
	Deadline      *time.Time
}

type Stats struct {
	Pending    int64
	InProgress int64
	Completed  int64
	Approved   int64
	Total      int64
}
