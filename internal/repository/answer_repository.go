package repository

import (
	"qingfeng_exam_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// UpsertBatch 在单个事务里写入一次交卷的全部答题记录。
// 冲突键为 (user_id, paper_id, question_id)：重复交卷覆盖旧作答，
// 不产生重复行；任何一行失败则整批回滚，不留部分写入。
func (r *AnswerRepository) UpsertBatch(answers []model.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "paper_id"}, {Name: "question_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"chosen", "is_correct", "score", "manual_score",
				"status", "comment", "submitted_at", "updated_at",
			}),
		}).Create(&answers).Error
	})
}

func (r *AnswerRepository) FindByID(id string) (*model.Answer, error) {
	var a model.Answer
	err := r.DB.First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnswerRepository) ListByUserAndPaper(userID uint, paperID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("user_id = ? AND paper_id = ?", userID, paperID).Find(&answers).Error
	return answers, err
}

// ListByPaper 整卷全部答题记录，统计聚合用
func (r *AnswerRepository) ListByPaper(paperID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("paper_id = ?", paperID).Find(&answers).Error
	return answers, err
}

// PendingRow 待批阅队列的一行：答题记录 + 卷面信息
type PendingRow struct {
	model.Answer
	PaperTitle string  `json:"paperTitle"`
	UserName   string  `json:"userName"`
	MaxScore   float64 `json:"maxScore"`
}

// ListPending 待人工批阅的简答题，按提交时间倒序
func (r *AnswerRepository) ListPending(paperID string, limit int) ([]PendingRow, error) {
	query := r.DB.Table("answers a").
		Select("a.*, p.title as paper_title, u.name as user_name, pq.score as max_score").
		Joins("JOIN papers p ON p.id = a.paper_id").
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("JOIN paper_questions pq ON pq.paper_id = a.paper_id AND pq.question_id = a.question_id").
		Where("a.status = ? AND a.deleted_at IS NULL", model.StatusPending).
		Order("a.submitted_at desc")

	if paperID != "" {
		query = query.Where("a.paper_id = ?", paperID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []PendingRow
	err := query.Scan(&rows).Error
	return rows, err
}

// UpdateManualGrade 写回人工批阅结论
func (r *AnswerRepository) UpdateManualGrade(answerID string, manualScore float64, isCorrect bool, comment string) error {
	// 机器分保持 0，总分口径统一为 score + manual_score
	return r.DB.Model(&model.Answer{}).Where("id = ?", answerID).Updates(map[string]interface{}{
		"manual_score": manualScore,
		"is_correct":   isCorrect,
		"status":       model.StatusGraded,
		"comment":      comment,
	}).Error
}

// UserScoreRow 一名学生在一份试卷上的单行得分
type UserScoreRow struct {
	UserID      uint
	Score       float64
	ManualScore *float64
}

// ListScoreRows 某卷全部 (user, score, manual_score) 行，报表聚合的原料
func (r *AnswerRepository) ListScoreRows(paperID string) ([]UserScoreRow, error) {
	var rows []UserScoreRow
	err := r.DB.Model(&model.Answer{}).
		Select("user_id, score, manual_score").
		Where("paper_id = ?", paperID).
		Scan(&rows).Error
	return rows, err
}
