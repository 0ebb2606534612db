package model

import "time"

// WrongQuestion 学生错题本。(user_id, question_id) 唯一，
// 再次答错只累加 wrong_count，不产生新行。
// swagger:model WrongQuestion
type WrongQuestion struct {
	UUIDBase
	UserID      uint      `gorm:"uniqueIndex:idx_wrong_user_question;not null" json:"userId"`
	QuestionID  string    `gorm:"size:36;uniqueIndex:idx_wrong_user_question;not null" json:"questionId"`
	PaperID     *string   `gorm:"size:36" json:"paperId"`
	UserAnswer  *string   `gorm:"type:text" json:"userAnswer"`
	WrongCount  int       `gorm:"default:1" json:"wrongCount"`
	LastWrongAt time.Time `json:"lastWrongAt"`
	IsMastered  bool      `gorm:"default:false" json:"isMastered"`
}

func (WrongQuestion) TableName() string {
	return "wrong_questions"
}
