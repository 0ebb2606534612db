package service

import (
	"errors"
	"strings"
	"time"

	"qingfeng_exam_backend/internal/grading"
	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/util"
	"qingfeng_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaperStore / AnswerStore / WrongAnswerRecorder 等接口把存储层
// 从交卷流程里解耦出来，测试时可替换为内存实现。
type PaperStore interface {
	FindWithQuestions(paperID string) (*repository.PaperWithQuestions, error)
}

type AnswerStore interface {
	UpsertBatch(answers []model.Answer) error
	ListByUserAndPaper(userID uint, paperID string) ([]model.Answer, error)
}

type WrongAnswerRecorder interface {
	Record(userID uint, questionID string, paperID *string, userAnswer *string) error
}

type GradeNotifier interface {
	NotifyGradePublished(userID uint, paperID, paperTitle string) error
}

type DraftStore interface {
	Delete(userID uint, paperID string) error
}

type RankingInvalidator interface {
	InvalidatePaper(paperID string) error
}

type ExamService struct {
	Papers   PaperStore
	Answers  AnswerStore
	Recorder WrongAnswerRecorder
	Notifier GradeNotifier
	Drafts   DraftStore
	Rankings RankingInvalidator
}

func NewExamService(
	papers PaperStore,
	answers AnswerStore,
	recorder WrongAnswerRecorder,
	notifier GradeNotifier,
	drafts DraftStore,
	rankings RankingInvalidator,
) *ExamService {
	return &ExamService{
		Papers:   papers,
		Answers:  answers,
		Recorder: recorder,
		Notifier: notifier,
		Drafts:   drafts,
		Rankings: rankings,
	}
}

type SubmitResult struct {
	Success      bool `json:"success"`
	Count        int  `json:"count"`
	PendingCount int  `json:"pendingCount"`
}

// postCommitHook 主事务提交后的尽力而为副作用。
// 单独捕获并记日志，任何失败都不回滚、不影响交卷结果。
type postCommitHook struct {
	name string
	run  func() error
}

// SubmitAnswers 交卷并自动批改：加载试卷题目，逐题调用批改引擎，
// 按 (user, paper, question) 唯一键整批 upsert 答题记录，
// 然后执行错题记录、成绩通知等后置副作用。
func (s *ExamService) SubmitAnswers(userID uint, paperID string, answers map[string]model.ChosenValue) (*SubmitResult, error) {
	paper, err := s.Papers.FindWithQuestions(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaperNotFound
		}
		return nil, err
	}
	if len(paper.Questions) == 0 {
		return nil, util.ErrEmptyPaper
	}

	now := time.Now()
	records := make([]model.Answer, 0, len(paper.Questions))
	pending := 0

	for i := range paper.Questions {
		bq := &paper.Questions[i]
		chosen := []string(answers[bq.QuestionID])

		verdict, err := grading.Grade(&bq.Question, bq.Score, chosen)
		if err != nil {
			// 题库数据错误，整次提交失败并上抛
			return nil, err
		}
		if verdict.Status == model.StatusPending {
			pending++
		}

		record := model.Answer{
			UserID:      userID,
			PaperID:     paperID,
			QuestionID:  bq.QuestionID,
			IsCorrect:   verdict.IsCorrect,
			Score:       verdict.Score,
			Status:      verdict.Status,
			SubmittedAt: now,
		}
		if len(chosen) > 0 {
			record.Chosen = model.StringArray(chosen)
		}
		records = append(records, record)
	}

	// 整批写入，全有或全无；失败由调用方整卷重交
	if err := s.Answers.UpsertBatch(records); err != nil {
		return nil, err
	}

	s.runPostCommitHooks(s.buildPostCommitHooks(userID, paper, records))

	return &SubmitResult{Success: true, Count: len(records), PendingCount: pending}, nil
}

func (s *ExamService) buildPostCommitHooks(userID uint, paper *repository.PaperWithQuestions, records []model.Answer) []postCommitHook {
	hooks := make([]postCommitHook, 0, 4)
	paperID := paper.Paper.ID

	// 客观题答错的自动记入错题本
	for i := range records {
		rec := records[i]
		if rec.IsCorrect == nil || *rec.IsCorrect {
			continue
		}
		var userAnswer *string
		if len(rec.Chosen) > 0 {
			joined := strings.Join(rec.Chosen, ", ")
			userAnswer = &joined
		}
		hooks = append(hooks, postCommitHook{
			name: "record_wrong_question",
			run: func() error {
				pid := paperID
				return s.Recorder.Record(userID, rec.QuestionID, &pid, userAnswer)
			},
		})
	}

	if paper.Paper.AllowReview && s.Notifier != nil {
		hooks = append(hooks, postCommitHook{
			name: "notify_grade_published",
			run: func() error {
				return s.Notifier.NotifyGradePublished(userID, paperID, paper.Paper.Title)
			},
		})
	}

	if s.Drafts != nil {
		hooks = append(hooks, postCommitHook{
			name: "clear_draft",
			run:  func() error { return s.Drafts.Delete(userID, paperID) },
		})
	}

	if s.Rankings != nil {
		hooks = append(hooks, postCommitHook{
			name: "invalidate_ranking",
			run:  func() error { return s.Rankings.InvalidatePaper(paperID) },
		})
	}

	return hooks
}

func (s *ExamService) runPostCommitHooks(hooks []postCommitHook) {
	for _, h := range hooks {
		if err := h.run(); err != nil {
			logger.Log.Warn("post-commit hook failed",
				zap.String("hook", h.name), zap.Error(err))
		}
	}
}

type ExamResult struct {
	Paper       *model.Paper   `json:"paper"`
	Answers     []model.Answer `json:"answers"`
	TotalScore  float64        `json:"totalScore"`
	UserScore   float64        `json:"userScore"`
	CorrectRate float64        `json:"correctRate"`
}

// GetExamResult 学生成绩：总分口径为机器分 + 人工分
func (s *ExamService) GetExamResult(userID uint, paperID string) (*ExamResult, error) {
	paper, err := s.Papers.FindWithQuestions(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaperNotFound
		}
		return nil, err
	}

	answers, err := s.Answers.ListByUserAndPaper(userID, paperID)
	if err != nil {
		return nil, err
	}

	var userScore float64
	correct := 0
	for i := range answers {
		userScore += answers[i].FinalScore()
		if answers[i].IsCorrect != nil && *answers[i].IsCorrect {
			correct++
		}
	}

	rate := 0.0
	if len(answers) > 0 {
		rate = float64(correct) / float64(len(answers))
	}

	return &ExamResult{
		Paper:       &paper.Paper,
		Answers:     answers,
		TotalScore:  paper.Paper.TotalScore,
		UserScore:   userScore,
		CorrectRate: rate,
	}, nil
}
