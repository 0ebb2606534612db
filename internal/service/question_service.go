package service

import (
	"errors"
	"fmt"

	"qingfeng_exam_backend/internal/grading"
	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

// validateQuestion 入库前校验：题型合法、答案数量符合题型、
// 选择类答案落在选项标签内（交给批改引擎复用同一套规则）。
func validateQuestion(q *model.Question) error {
	switch q.Type {
	case model.QuestionSingle, model.QuestionTrueFalse:
		if len(q.Answer) != 1 {
			return fmt.Errorf("题型 %s 要求恰好一个标准答案", q.Type)
		}
	case model.QuestionMultiple:
		if len(q.Answer) < 2 {
			return fmt.Errorf("多选题要求至少两个标准答案")
		}
	case model.QuestionFill:
		if len(q.Answer) == 0 {
			return fmt.Errorf("填空题要求至少一个空位答案")
		}
	case model.QuestionShort:
	default:
		return fmt.Errorf("%w: %q", grading.ErrUnknownQuestionType, q.Type)
	}
	return grading.Validate(q)
}

func (s *QuestionService) Create(q *model.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	return s.Repo.Create(q)
}

func (s *QuestionService) Update(q *model.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	if _, err := s.Repo.FindByID(q.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.Repo.Update(q)
}

func (s *QuestionService) GetByID(id string) (*model.Question, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func (s *QuestionService) List(filter repository.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(filter, page, limit)
}
