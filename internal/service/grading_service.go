package service

import (
	"errors"
	"fmt"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/util"
	"qingfeng_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GradingService 简答题人工批阅队列
type GradingService struct {
	AnswerRepo *repository.AnswerRepository
	PaperRepo  *repository.PaperRepository
	Notifier   *NotificationService
}

func NewGradingService(answerRepo *repository.AnswerRepository, paperRepo *repository.PaperRepository, notifier *NotificationService) *GradingService {
	return &GradingService{
		AnswerRepo: answerRepo,
		PaperRepo:  paperRepo,
		Notifier:   notifier,
	}
}

// ListPending 待批阅的简答题，可按试卷过滤
func (s *GradingService) ListPending(paperID string, limit int) ([]repository.PendingRow, error) {
	return s.AnswerRepo.ListPending(paperID, limit)
}

// GradeShortAnswer 批阅一道简答题。得分截断到 [0, 满分]，
// 达到满分 60% 记为答对，状态置为 graded，并尽力推送批阅完成通知。
func (s *GradingService) GradeShortAnswer(answerID string, manualScore float64, comment string) error {
	answer, err := s.AnswerRepo.FindByID(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAnswerNotFound
		}
		return err
	}

	maxScore, err := s.PaperRepo.FindQuestionScore(answer.PaperID, answer.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	finalScore, isCorrect := finalizeManualScore(manualScore, maxScore)

	if err := s.AnswerRepo.UpdateManualGrade(answerID, finalScore, isCorrect, comment); err != nil {
		return err
	}

	// 通知失败不影响批阅结果
	if s.Notifier != nil {
		paper, err := s.PaperRepo.FindByID(answer.PaperID)
		title := "未知试卷"
		if err == nil {
			title = paper.Title
		}
		content := fmt.Sprintf("您的试卷“%s”中的简答题已批阅完成，得分：%.1f分。", title, finalScore)
		if err := s.Notifier.Notify(answer.UserID, model.NotifyManualReviewCompleted, "简答题批阅完成", content, &answer.PaperID); err != nil {
			logger.Log.Warn("failed to send review-completed notification",
				zap.String("answer_id", answerID), zap.Error(err))
		}
	}

	return nil
}

// finalizeManualScore 得分截断到 [0, 满分]，达到满分 60% 记为答对
func finalizeManualScore(manualScore, maxScore float64) (float64, bool) {
	score := manualScore
	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}
	return score, score >= maxScore*util.PassLine
}
