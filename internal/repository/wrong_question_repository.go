package repository

import (
	"qingfeng_exam_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type WrongQuestionRepository struct {
	DB *gorm.DB
}

func NewWrongQuestionRepository(db *gorm.DB) *WrongQuestionRepository {
	return &WrongQuestionRepository{DB: db}
}

func (r *WrongQuestionRepository) FindByUserAndQuestion(userID uint, questionID string) (*model.WrongQuestion, error) {
	var wq model.WrongQuestion
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&wq).Error
	if err != nil {
		return nil, err
	}
	return &wq, nil
}

func (r *WrongQuestionRepository) Create(wq *model.WrongQuestion) error {
	return r.DB.Create(wq).Error
}

// IncrementWrongCount 已有错题再次答错：次数 +1，覆盖最近一次作答信息
func (r *WrongQuestionRepository) IncrementWrongCount(id string, paperID *string, userAnswer *string) error {
	return r.DB.Model(&model.WrongQuestion{}).Where("id = ?", id).Updates(map[string]interface{}{
		"wrong_count":   gorm.Expr("wrong_count + 1"),
		"last_wrong_at": time.Now(),
		"user_answer":   userAnswer,
		"paper_id":      paperID,
	}).Error
}

type WrongQuestionFilter struct {
	Subject    string
	Grade      string
	Type       string
	IsMastered *bool
}

// WrongQuestionRow 错题 + 题目本体
type WrongQuestionRow struct {
	model.WrongQuestion
	Question model.Question `gorm:"-" json:"question"`
}

func (r *WrongQuestionRepository) List(userID uint, filter WrongQuestionFilter) ([]WrongQuestionRow, error) {
	query := r.DB.Model(&model.WrongQuestion{}).Where("user_id = ?", userID)
	if filter.IsMastered != nil {
		query = query.Where("is_mastered = ?", *filter.IsMastered)
	}

	var entries []model.WrongQuestion
	if err := query.Order("last_wrong_at desc").Find(&entries).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.QuestionID)
	}

	byID := make(map[string]model.Question, len(ids))
	if len(ids) > 0 {
		var qs []model.Question
		if err := r.DB.Where("id IN ?", ids).Find(&qs).Error; err != nil {
			return nil, err
		}
		for _, q := range qs {
			byID[q.ID] = q
		}
	}

	rows := make([]WrongQuestionRow, 0, len(entries))
	for _, e := range entries {
		q, ok := byID[e.QuestionID]
		if !ok {
			continue
		}
		// 题目维度的过滤在加载后做，与题目表字段对齐
		if filter.Subject != "" && q.Subject != filter.Subject {
			continue
		}
		if filter.Grade != "" && q.Grade != filter.Grade {
			continue
		}
		if filter.Type != "" && string(q.Type) != filter.Type {
			continue
		}
		rows = append(rows, WrongQuestionRow{WrongQuestion: e, Question: q})
	}
	return rows, nil
}

func (r *WrongQuestionRepository) SetMastered(id string, userID uint, mastered bool) error {
	result := r.DB.Model(&model.WrongQuestion{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_mastered", mastered)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WrongQuestionRepository) Delete(id string, userID uint) error {
	result := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.WrongQuestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatsRow 错题统计原料行
type StatsRow struct {
	IsMastered bool
	Subject    string
	Type       string
}

func (r *WrongQuestionRepository) StatsRows(userID uint) ([]StatsRow, error) {
	var rows []StatsRow
	err := r.DB.Table("wrong_questions w").
		Select("w.is_mastered, q.subject, q.type").
		Joins("JOIN questions q ON q.id = w.question_id").
		Where("w.user_id = ? AND w.deleted_at IS NULL", userID).
		Scan(&rows).Error
	return rows, err
}
