package repository

import (
	"qingfeng_exam_backend/internal/model"

	"gorm.io/gorm"
)

type PaperRepository struct {
	DB *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{DB: db}
}

// BoundQuestion 试卷内的一道题：绑定分值 + 题目本体
type BoundQuestion struct {
	PaperQuestionID string
	QuestionID      string
	Score           float64
	OrderNo         int
	Question        model.Question
}

// PaperWithQuestions 按 order_no 排好序的完整试卷
type PaperWithQuestions struct {
	Paper     model.Paper
	Questions []BoundQuestion
}

func (r *PaperRepository) Create(paper *model.Paper, questions []model.PaperQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(paper).Error; err != nil {
			return err
		}
		var total float64
		for i := range questions {
			questions[i].PaperID = paper.ID
			total += questions[i].Score
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return tx.Model(paper).Update("total_score", total).Error
	})
}

func (r *PaperRepository) FindByID(id string) (*model.Paper, error) {
	var paper model.Paper
	err := r.DB.First(&paper, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// FindWithQuestions 加载试卷及其绑定题目，批改核心的唯一读入口
func (r *PaperRepository) FindWithQuestions(paperID string) (*PaperWithQuestions, error) {
	var paper model.Paper
	if err := r.DB.First(&paper, "id = ?", paperID).Error; err != nil {
		return nil, err
	}

	var pqs []model.PaperQuestion
	if err := r.DB.Where("paper_id = ?", paperID).Order("order_no asc").Find(&pqs).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(pqs))
	for _, pq := range pqs {
		ids = append(ids, pq.QuestionID)
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

	result := &PaperWithQuestions{Paper: paper}
	for _, pq := range pqs {
		q, ok := byID[pq.QuestionID]
		if !ok {
			// 题目被删除但绑定残留，跳过而不是整卷失败
			continue
		}
		result.Questions = append(result.Questions, BoundQuestion{
			PaperQuestionID: pq.ID,
			QuestionID:      pq.QuestionID,
			Score:           pq.Score,
			OrderNo:         pq.OrderNo,
			Question:        q,
		})
	}
	return result, nil
}

func (r *PaperRepository) Update(paper *model.Paper) error {
	return r.DB.Save(paper).Error
}

func (r *PaperRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ?", id).Delete(&model.PaperQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Paper{}, "id = ?", id).Error
	})
}

func (r *PaperRepository) List(page, limit int, publishedOnly bool) ([]model.Paper, int64, error) {
	query := r.DB.Model(&model.Paper{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var papers []model.Paper
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&papers).Error
	return papers, total, err
}

// FindQuestionScore 某题在某卷上的分值，人工批阅用来确定满分
func (r *PaperRepository) FindQuestionScore(paperID, questionID string) (float64, error) {
	var pq model.PaperQuestion
	err := r.DB.Where("paper_id = ? AND question_id = ?", paperID, questionID).First(&pq).Error
	if err != nil {
		return 0, err
	}
	return pq.Score, nil
}
