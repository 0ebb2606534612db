package service

import (
	"errors"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/util"

	"gorm.io/gorm"
)

// PaperQuestionInput 组卷时的一道题：题目 ID 与卷面分值
type PaperQuestionInput struct {
	QuestionID string  `json:"questionId" binding:"required"`
	Score      float64 `json:"score" binding:"required,gt=0"`
}

type PaperService struct {
	PaperRepo    *repository.PaperRepository
	QuestionRepo *repository.QuestionRepository
}

func NewPaperService(paperRepo *repository.PaperRepository, questionRepo *repository.QuestionRepository) *PaperService {
	return &PaperService{PaperRepo: paperRepo, QuestionRepo: questionRepo}
}

// Create 组卷。总分由各题分值累加得出，绑定顺序即卷面顺序。
func (s *PaperService) Create(paper *model.Paper, inputs []PaperQuestionInput) error {
	if len(inputs) == 0 {
		return util.ErrEmptyPaper
	}

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.QuestionID)
	}
	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return err
	}
	found := make(map[string]bool, len(questions))
	for _, q := range questions {
		found[q.ID] = true
	}
	for _, in := range inputs {
		if !found[in.QuestionID] {
			return util.ErrQuestionNotFound
		}
	}

	bindings := make([]model.PaperQuestion, 0, len(inputs))
	for i, in := range inputs {
		bindings = append(bindings, model.PaperQuestion{
			QuestionID: in.QuestionID,
			Score:      in.Score,
			OrderNo:    i + 1,
		})
	}
	return s.PaperRepo.Create(paper, bindings)
}

// StudentQuestion 学生视角的卷内题目，不含标准答案与解析
type StudentQuestion struct {
	QuestionID string             `json:"questionId"`
	Type       model.QuestionType `json:"type"`
	Stem       string             `json:"stem"`
	Options    []model.Option     `json:"options,omitempty"`
	Score      float64            `json:"score"`
	OrderNo    int                `json:"orderNo"`
}

type StudentPaper struct {
	Paper     model.Paper       `json:"paper"`
	Questions []StudentQuestion `json:"questions"`
}

// GetForTaking 答题用的试卷视图。未发布的卷对学生不可见。
func (s *PaperService) GetForTaking(paperID string) (*StudentPaper, error) {
	paper, err := s.PaperRepo.FindWithQuestions(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaperNotFound
		}
		return nil, err
	}
	if !paper.Paper.IsPublished {
		return nil, util.ErrPaperNotPublished
	}

	result := &StudentPaper{Paper: paper.Paper}
	for i := range paper.Questions {
		bq := &paper.Questions[i]
		result.Questions = append(result.Questions, StudentQuestion{
			QuestionID: bq.QuestionID,
			Type:       bq.Question.Type,
			Stem:       bq.Question.Stem,
			Options:    bq.Question.OptionList(),
			Score:      bq.Score,
			OrderNo:    bq.OrderNo,
		})
	}
	return result, nil
}

// GetFull 教师端完整视图，含标准答案
func (s *PaperService) GetFull(paperID string) (*repository.PaperWithQuestions, error) {
	paper, err := s.PaperRepo.FindWithQuestions(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaperNotFound
		}
		return nil, err
	}
	return paper, nil
}

func (s *PaperService) List(page, limit int, publishedOnly bool) ([]model.Paper, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.PaperRepo.List(page, limit, publishedOnly)
}

func (s *PaperService) SetPublished(paperID string, published bool) error {
	paper, err := s.PaperRepo.FindByID(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPaperNotFound
		}
		return err
	}
	paper.IsPublished = published
	return s.PaperRepo.Update(paper)
}

func (s *PaperService) Delete(paperID string) error {
	if _, err := s.PaperRepo.FindByID(paperID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPaperNotFound
		}
		return err
	}
	return s.PaperRepo.Delete(paperID)
}
