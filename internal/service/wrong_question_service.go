package service

import (
	"errors"
	"time"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/util"

	"gorm.io/gorm"
)

// WrongQuestionStore 错题本存储，测试时可替换为内存实现
type WrongQuestionStore interface {
	FindByUserAndQuestion(userID uint, questionID string) (*model.WrongQuestion, error)
	Create(wq *model.WrongQuestion) error
	IncrementWrongCount(id string, paperID *string, userAnswer *string) error
}

type WrongQuestionService struct {
	Store WrongQuestionStore
	Repo  *repository.WrongQuestionRepository
}

func NewWrongQuestionService(repo *repository.WrongQuestionRepository) *WrongQuestionService {
	return &WrongQuestionService{Store: repo, Repo: repo}
}

// Record 记一笔错题：已有条目累加 wrong_count 并覆盖最近一次作答，
// 否则新建 wrong_count = 1 的条目。由交卷流程在批改后调用。
func (s *WrongQuestionService) Record(userID uint, questionID string, paperID *string, userAnswer *string) error {
	existing, err := s.Store.FindByUserAndQuestion(userID, questionID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.Store.Create(&model.WrongQuestion{
			UserID:      userID,
			QuestionID:  questionID,
			PaperID:     paperID,
			UserAnswer:  userAnswer,
			WrongCount:  1,
			LastWrongAt: time.Now(),
			IsMastered:  false,
		})
	}
	return s.Store.IncrementWrongCount(existing.ID, paperID, userAnswer)
}

func (s *WrongQuestionService) List(userID uint, filter repository.WrongQuestionFilter) ([]repository.WrongQuestionRow, error) {
	return s.Repo.List(userID, filter)
}

func (s *WrongQuestionService) ToggleMastered(id string, userID uint, mastered bool) error {
	err := s.Repo.SetMastered(id, userID, mastered)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrWrongQuestionNotFound
	}
	return err
}

func (s *WrongQuestionService) Delete(id string, userID uint) error {
	err := s.Repo.Delete(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrWrongQuestionNotFound
	}
	return err
}

type WrongQuestionStats struct {
	Total       int            `json:"total"`
	Mastered    int            `json:"mastered"`
	NotMastered int            `json:"notMastered"`
	BySubject   map[string]int `json:"bySubject"`
	ByType      map[string]int `json:"byType"`
}

func (s *WrongQuestionService) Stats(userID uint) (*WrongQuestionStats, error) {
	rows, err := s.Repo.StatsRows(userID)
	if err != nil {
		return nil, err
	}

	stats := &WrongQuestionStats{
		BySubject: make(map[string]int),
		ByType:    make(map[string]int),
	}
	for _, row := range rows {
		stats.Total++
		if row.IsMastered {
			stats.Mastered++
		} else {
			stats.NotMastered++
		}
		subject := row.Subject
		if subject == "" {
			subject = "未分类"
		}
		qType := row.Type
		if qType == "" {
			qType = "未知"
		}
		stats.BySubject[subject]++
		stats.ByType[qType]++
	}
	return stats, nil
}
