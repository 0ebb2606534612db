package model

import (
	"encoding/json"
	"time"
)

// AnswerStatus 答题记录的批改状态
type AnswerStatus string

const (
	StatusAuto    AnswerStatus = "auto"    // 机器批改完成（客观题）
	StatusPending AnswerStatus = "pending" // 等待人工批阅（简答题）
	StatusGraded  AnswerStatus = "graded"  // 人工批阅完成
)

// Answer 一名学生在一份试卷中对一道题的作答记录。
// (user_id, paper_id, question_id) 唯一，重复交卷按该键 upsert 覆盖。
// swagger:model Answer
type Answer struct {
	UUIDBase
	UserID     uint   `gorm:"uniqueIndex:idx_answer_user_paper_question;not null" json:"userId"`
	PaperID    string `gorm:"size:36;uniqueIndex:idx_answer_user_paper_question;index;not null" json:"paperId"`
	QuestionID string `gorm:"size:36;uniqueIndex:idx_answer_user_paper_question;not null" json:"questionId"`
	// Chosen 学生作答，未作答为 null
	Chosen StringArray `gorm:"type:json" json:"chosen"`
	// IsCorrect 为 null 表示不可机器判定（简答）或尚未判定
	IsCorrect *bool   `json:"isCorrect"`
	Score     float64 `gorm:"default:0" json:"score"`
	// ManualScore 人工批阅得分，批阅前为 null
	ManualScore *float64     `json:"manualScore"`
	Status      AnswerStatus `gorm:"size:20;default:'auto';index" json:"status"`
	Comment     string       `gorm:"type:text" json:"comment"`
	SubmittedAt time.Time    `json:"submittedAt"`
}

func (Answer) TableName() string {
	return "answers"
}

// FinalScore 机器得分与人工得分之和，报表口径统一从这里取
func (a *Answer) FinalScore() float64 {
	s := a.Score
	if a.ManualScore != nil {
		s += *a.ManualScore
	}
	return s
}

// AnswerDraft 服务端答题草稿，交卷成功前保留，按 (user, paper) 唯一
// swagger:model AnswerDraft
type AnswerDraft struct {
	BaseModel
	UserID  uint            `gorm:"uniqueIndex:idx_draft_user_paper;not null" json:"userId"`
	PaperID string          `gorm:"size:36;uniqueIndex:idx_draft_user_paper;not null" json:"paperId"`
	Payload json.RawMessage `gorm:"type:json" json:"payload"`
}

func (AnswerDraft) TableName() string {
	return "answer_drafts"
}
