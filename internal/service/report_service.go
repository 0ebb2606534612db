package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/util"

	"gorm.io/gorm"
)

// PaperStats 单卷成绩聚合。及格线为卷面总分的 60%。
type PaperStats struct {
	PaperID     string  `json:"paperId"`
	PaperTitle  string  `json:"paperTitle"`
	TotalScore  float64 `json:"totalScore"`
	Submissions int     `json:"submissions"`
	Average     float64 `json:"average"`
	Median      float64 `json:"median"`
	Highest     float64 `json:"highest"`
	Lowest      float64 `json:"lowest"`
	PassCount   int     `json:"passCount"`
	PassRate    float64 `json:"passRate"`
}

// ReportRow 报表明细：一名学生在一份试卷上的成绩与分题型对错
type ReportRow struct {
	UserID    uint           `json:"userId"`
	UserName  string         `json:"userName"`
	Score     float64        `json:"score"`
	Correct   int            `json:"correct"`
	Wrong     int            `json:"wrong"`
	Pending   int            `json:"pending"`
	ByType    map[string]int `json:"correctByType"`
	Submitted time.Time      `json:"submittedAt"`
}

type ReportService struct {
	PaperRepo  *repository.PaperRepository
	AnswerRepo *repository.AnswerRepository
	UserRepo   *repository.UserRepository
	Storage    *StorageService
}

func NewReportService(paperRepo *repository.PaperRepository, answerRepo *repository.AnswerRepository, userRepo *repository.UserRepository, storage *StorageService) *ReportService {
	return &ReportService{
		PaperRepo:  paperRepo,
		AnswerRepo: answerRepo,
		UserRepo:   userRepo,
		Storage:    storage,
	}
}

// PaperStats 平均分、中位数、最高最低分与及格率
func (s *ReportService) PaperStats(paperID string) (*PaperStats, error) {
	paper, err := s.PaperRepo.FindByID(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaperNotFound
		}
		return nil, err
	}

	rows, err := s.AnswerRepo.ListScoreRows(paperID)
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]float64)
	for _, row := range rows {
		score := row.Score
		if row.ManualScore != nil {
			score += *row.ManualScore
		}
		totals[row.UserID] += score
	}

	stats := &PaperStats{
		PaperID:    paper.ID,
		PaperTitle: paper.Title,
		TotalScore: paper.TotalScore,
	}
	scores := make([]float64, 0, len(totals))
	for _, score := range totals {
		scores = append(scores, score)
	}
	stats.summarize(scores)
	return stats, nil
}

// summarize 用每名学生的总分填充聚合字段
func (st *PaperStats) summarize(scores []float64) {
	if len(scores) == 0 {
		return
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	var sum float64
	for _, score := range sorted {
		sum += score
	}
	passLine := st.TotalScore * util.PassLine
	for _, score := range sorted {
		if score >= passLine {
			st.PassCount++
		}
	}

	st.Submissions = len(sorted)
	st.Average = sum / float64(len(sorted))
	st.Median = median(sorted)
	st.Highest = sorted[len(sorted)-1]
	st.Lowest = sorted[0]
	st.PassRate = float64(st.PassCount) / float64(len(sorted))
}

// median 输入必须已升序排序
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// PaperReport 按学生汇总的明细行，按总分降序
func (s *ReportService) PaperReport(paperID string) ([]ReportRow, error) {
	paper, err := s.PaperRepo.FindWithQuestions(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaperNotFound
		}
		return nil, err
	}

	typeByQuestion := make(map[string]model.QuestionType, len(paper.Questions))
	for i := range paper.Questions {
		typeByQuestion[paper.Questions[i].QuestionID] = paper.Questions[i].Question.Type
	}

	answers, err := s.AnswerRepo.ListByPaper(paperID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*ReportRow)
	for i := range answers {
		a := &answers[i]
		row, ok := byUser[a.UserID]
		if !ok {
			row = &ReportRow{UserID: a.UserID, ByType: make(map[string]int)}
			byUser[a.UserID] = row
		}
		row.Score += a.FinalScore()
		if a.SubmittedAt.After(row.Submitted) {
			row.Submitted = a.SubmittedAt
		}
		switch {
		case a.Status == model.StatusPending:
			row.Pending++
		case a.IsCorrect != nil && *a.IsCorrect:
			row.Correct++
			row.ByType[string(typeByQuestion[a.QuestionID])]++
		default:
			row.Wrong++
		}
	}

	userIDs := make([]uint, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	if len(userIDs) > 0 {
		users, err := s.UserRepo.FindByIDs(userIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if row, ok := byUser[u.ID]; ok {
				row.UserName = u.Name
			}
		}
	}

	result := make([]ReportRow, 0, len(byUser))
	for _, row := range byUser {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

// ExportCSV 生成明细 CSV 并上传到配置的存储，返回可下载地址
func (s *ReportService) ExportCSV(ctx context.Context, paperID string) (string, error) {
	rows, err := s.PaperReport(paperID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"user_id", "user_name", "score", "correct", "wrong", "pending", "submitted_at"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.UserID), 10),
			row.UserName,
			strconv.FormatFloat(row.Score, 'f', 1, 64),
			strconv.Itoa(row.Correct),
			strconv.Itoa(row.Wrong),
			strconv.Itoa(row.Pending),
			row.Submitted.Format(util.TimeFormat),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("reports/paper_%s_%d.csv", paperID, time.Now().Unix())
	return s.Storage.Upload(ctx, filename, &buf, int64(buf.Len()), "text/csv")
}
