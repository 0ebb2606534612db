package model

// swagger:model Paper
type Paper struct {
	UUIDBase
	Title           string  `gorm:"size:255;not null" json:"title"`
	Subject         string  `gorm:"size:50;index" json:"subject"`
	Grade           string  `gorm:"size:50;index" json:"grade"`
	DurationMinutes int     `gorm:"default:60" json:"durationMinutes"`
	TotalScore      float64 `gorm:"default:0" json:"totalScore"`
	// AllowReview 允许学生交卷后查看成绩与解析，此时会推送成绩发布通知
	AllowReview bool `gorm:"default:true" json:"allowReview"`
	IsPublished bool `gorm:"default:false" json:"isPublished"`
	CreatedBy   uint `gorm:"index" json:"createdBy"`
}

func (Paper) TableName() string {
	return "papers"
}

// PaperQuestion 试卷与题目的绑定，附带该题在卷面上的分值
// swagger:model PaperQuestion
type PaperQuestion struct {
	UUIDBase
	PaperID    string  `gorm:"size:36;index;not null" json:"paperId"`
	QuestionID string  `gorm:"size:36;index;not null" json:"questionId"`
	Score      float64 `gorm:"not null" json:"score"`
	OrderNo    int     `gorm:"default:0" json:"orderNo"`
}

func (PaperQuestion) TableName() string {
	return "paper_questions"
}
