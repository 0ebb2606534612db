package model

type NotificationKind string

const (
	NotifyGradePublished        NotificationKind = "grade_published"
	NotifyManualReviewCompleted NotificationKind = "manual_review_completed"
)

// swagger:model Notification
type Notification struct {
	UUIDBase
	UserID  uint             `gorm:"index;not null" json:"userId"`
	Kind    NotificationKind `gorm:"size:50;not null" json:"kind"`
	Title   string           `gorm:"size:255" json:"title"`
	Content string           `gorm:"type:text" json:"content"`
	PaperID *string          `gorm:"size:36" json:"paperId"`
	IsRead  bool             `gorm:"default:false;index" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
