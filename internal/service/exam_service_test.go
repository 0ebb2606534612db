package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"qingfeng_exam_backend/internal/model"
	"qingfeng_exam_backend/internal/repository"
	"qingfeng_exam_backend/internal/util"
	"qingfeng_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakePaperStore struct {
	paper *repository.PaperWithQuestions
	err   error
}

func (f *fakePaperStore) FindWithQuestions(paperID string) (*repository.PaperWithQuestions, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.paper, nil
}

// fakeAnswerStore 模拟按 (user, paper, question) 键覆盖的批量 upsert
type fakeAnswerStore struct {
	records map[string]model.Answer
	err     error
	batches int
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{records: make(map[string]model.Answer)}
}

func answerKey(userID uint, paperID, questionID string) string {
	return fmt.Sprintf("%d|%s|%s", userID, paperID, questionID)
}

func (f *fakeAnswerStore) UpsertBatch(answers []model.Answer) error {
	if f.err != nil {
		return f.err
	}
	f.batches++
	for _, a := range answers {
		f.records[answerKey(a.UserID, a.PaperID, a.QuestionID)] = a
	}
	return nil
}

func (f *fakeAnswerStore) ListByUserAndPaper(userID uint, paperID string) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range f.records {
		if a.UserID == userID && a.PaperID == paperID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeRecorder struct {
	recorded []string
	answers  map[string]string
}

func (f *fakeRecorder) Record(userID uint, questionID string, paperID *string, userAnswer *string) error {
	f.recorded = append(f.recorded, questionID)
	if f.answers == nil {
		f.answers = make(map[string]string)
	}
	if userAnswer != nil {
		f.answers[questionID] = *userAnswer
	}
	return nil
}

type fakeNotifier struct{ calls int }

func (f *fakeNotifier) NotifyGradePublished(userID uint, paperID, paperTitle string) error {
	f.calls++
	return nil
}

type fakeDraftStore struct{ deletes int }

func (f *fakeDraftStore) Delete(userID uint, paperID string) error {
	f.deletes++
	return nil
}

type fakeRanking struct{ invalidated []string }

func (f *fakeRanking) InvalidatePaper(paperID string) error {
	f.invalidated = append(f.invalidated, paperID)
	return nil
}

func mustOptions(t *testing.T, labels ...string) json.RawMessage {
	t.Helper()
	opts := make([]model.Option, 0, len(labels))
	for _, l := range labels {
		opts = append(opts, model.Option{Label: l, Text: "选项" + l})
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func testPaper(t *testing.T, allowReview bool) *repository.PaperWithQuestions {
	t.Helper()
	single := model.Question{Type: model.QuestionSingle, Stem: "单选", Options: mustOptions(t, "A", "B", "C", "D"), Answer: model.StringArray{"B"}}
	single.ID = "q-single"
	multiple := model.Question{Type: model.QuestionMultiple, Stem: "多选", Options: mustOptions(t, "A", "B", "C", "D"), Answer: model.StringArray{"A", "C"}}
	multiple.ID = "q-multiple"
	fill := model.Question{Type: model.QuestionFill, Stem: "填空", Answer: model.StringArray{"光合作用"}}
	fill.ID = "q-fill"
	short := model.Question{Type: model.QuestionShort, Stem: "简答", Answer: model.StringArray{"参考答案"}}
	short.ID = "q-short"

	paper := model.Paper{Title: "期中生物", TotalScore: 40, AllowReview: allowReview, IsPublished: true}
	paper.ID = "paper-1"

	return &repository.PaperWithQuestions{
		Paper: paper,
		Questions: []repository.BoundQuestion{
			{QuestionID: single.ID, Score: 10, OrderNo: 1, Question: single},
			{QuestionID: multiple.ID, Score: 10, OrderNo: 2, Question: multiple},
			{QuestionID: fill.ID, Score: 10, OrderNo: 3, Question: fill},
			{QuestionID: short.ID, Score: 10, OrderNo: 4, Question: short},
		},
	}
}

func newTestExamService(papers *fakePaperStore, answers *fakeAnswerStore) (*ExamService, *fakeRecorder, *fakeNotifier, *fakeDraftStore, *fakeRanking) {
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	drafts := &fakeDraftStore{}
	rankings := &fakeRanking{}
	svc := NewExamService(papers, answers, recorder, notifier, drafts, rankings)
	return svc, recorder, notifier, drafts, rankings
}

func TestSubmitAnswersMixedPaper(t *testing.T) {
	answers := newFakeAnswerStore()
	svc, recorder, notifier, drafts, rankings := newTestExamService(&fakePaperStore{paper: testPaper(t, true)}, answers)

	result, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{
		"q-single":   {"B"},            // 对
		"q-multiple": {"C", "A"},       // 顺序无关，对
		"q-fill":     {"光合做用"},     // 一字之差，模糊匹配判对
		"q-short":    {"植物吸收阳光"}, // 转入人工批阅
	})
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	if !result.Success || result.Count != 4 {
		t.Errorf("result = %+v, want success with count 4", result)
	}
	if result.PendingCount != 1 {
		t.Errorf("PendingCount = %d, want 1", result.PendingCount)
	}

	rec := answers.records[answerKey(7, "paper-1", "q-short")]
	if rec.Status != model.StatusPending || rec.IsCorrect != nil || rec.Score != 0 {
		t.Errorf("short answer record = %+v, want pending with nil correctness and 0 score", rec)
	}

	var total float64
	for _, a := range answers.records {
		total += a.Score
	}
	if total != 30 {
		t.Errorf("machine score total = %v, want 30", total)
	}

	if len(recorder.recorded) != 0 {
		t.Errorf("wrong questions recorded = %v, want none", recorder.recorded)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
	if drafts.deletes != 1 {
		t.Errorf("draft deletes = %d, want 1", drafts.deletes)
	}
	if len(rankings.invalidated) != 1 || rankings.invalidated[0] != "paper-1" {
		t.Errorf("ranking invalidations = %v, want [paper-1]", rankings.invalidated)
	}
}

func TestSubmitAnswersRecordsWrongQuestions(t *testing.T) {
	answers := newFakeAnswerStore()
	svc, recorder, _, _, _ := newTestExamService(&fakePaperStore{paper: testPaper(t, true)}, answers)

	_, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{
		"q-single":   {"A"},      // 错
		"q-multiple": {"A", "C"}, // 对
		"q-fill":     {"呼吸作用"}, // 概念性错误
		// q-short 未作答，仍进入待批阅，不进错题本
	})
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	if len(recorder.recorded) != 2 {
		t.Fatalf("recorded = %v, want exactly the 2 wrong objective questions", recorder.recorded)
	}
	for _, id := range recorder.recorded {
		if id != "q-single" && id != "q-fill" {
			t.Errorf("unexpected wrong question %q", id)
		}
	}
	if got := recorder.answers["q-fill"]; got != "呼吸作用" {
		t.Errorf("recorded user answer = %q, want 呼吸作用", got)
	}
}

func TestSubmitAnswersResubmissionOverwrites(t *testing.T) {
	answers := newFakeAnswerStore()
	svc, _, _, _, _ := newTestExamService(&fakePaperStore{paper: testPaper(t, false)}, answers)

	submit := func(choice string) {
		t.Helper()
		if _, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{"q-single": {choice}}); err != nil {
			t.Fatalf("SubmitAnswers: %v", err)
		}
	}

	submit("A") // 错
	submit("B") // 重交，改对

	if len(answers.records) != 4 {
		t.Fatalf("record count = %d, want 4 (one per question, no duplicates)", len(answers.records))
	}
	rec := answers.records[answerKey(7, "paper-1", "q-single")]
	if rec.IsCorrect == nil || !*rec.IsCorrect || rec.Score != 10 {
		t.Errorf("resubmitted record = %+v, want correct with full score", rec)
	}
}

func TestSubmitAnswersAllOrNothing(t *testing.T) {
	answers := newFakeAnswerStore()
	answers.err = errors.New("deadlock found when trying to get lock")
	svc, recorder, notifier, drafts, rankings := newTestExamService(&fakePaperStore{paper: testPaper(t, true)}, answers)

	_, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{"q-single": {"A"}})
	if err == nil {
		t.Fatal("SubmitAnswers should propagate store error")
	}

	// 写入失败时不得执行任何后置副作用
	if len(recorder.recorded) != 0 || notifier.calls != 0 || drafts.deletes != 0 || len(rankings.invalidated) != 0 {
		t.Errorf("post-commit hooks ran after failed write: recorder=%v notifier=%d drafts=%d rankings=%v",
			recorder.recorded, notifier.calls, drafts.deletes, rankings.invalidated)
	}
}

func TestSubmitAnswersPaperNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestExamService(&fakePaperStore{err: gorm.ErrRecordNotFound}, newFakeAnswerStore())

	_, err := svc.SubmitAnswers(7, "missing", map[string]model.ChosenValue{})
	if !errors.Is(err, util.ErrPaperNotFound) {
		t.Errorf("err = %v, want ErrPaperNotFound", err)
	}
}

func TestSubmitAnswersEmptyPaper(t *testing.T) {
	paper := testPaper(t, true)
	paper.Questions = nil
	svc, _, _, _, _ := newTestExamService(&fakePaperStore{paper: paper}, newFakeAnswerStore())

	_, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{})
	if !errors.Is(err, util.ErrEmptyPaper) {
		t.Errorf("err = %v, want ErrEmptyPaper", err)
	}
}

func TestSubmitAnswersBadQuestionDataFailsWhole(t *testing.T) {
	paper := testPaper(t, true)
	bad := model.Question{Type: "essay", Stem: "未知题型"}
	bad.ID = "q-bad"
	paper.Questions = append(paper.Questions, repository.BoundQuestion{QuestionID: "q-bad", Score: 5, Question: bad})

	answers := newFakeAnswerStore()
	svc, _, _, _, _ := newTestExamService(&fakePaperStore{paper: paper}, answers)

	_, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{"q-single": {"B"}})
	if err == nil {
		t.Fatal("unknown question type should fail the whole submission")
	}
	if answers.batches != 0 {
		t.Errorf("upsert batches = %d, want 0 when grading fails", answers.batches)
	}
}

func TestSubmitAnswersNoNotificationWhenReviewDisabled(t *testing.T) {
	answers := newFakeAnswerStore()
	svc, _, notifier, _, _ := newTestExamService(&fakePaperStore{paper: testPaper(t, false)}, answers)

	if _, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{"q-single": {"B"}}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
	if notifier.calls != 0 {
		t.Errorf("notifier calls = %d, want 0 when review disabled", notifier.calls)
	}
}

func TestGetExamResultCombinesManualScore(t *testing.T) {
	answers := newFakeAnswerStore()
	svc, _, _, _, _ := newTestExamService(&fakePaperStore{paper: testPaper(t, true)}, answers)

	if _, err := svc.SubmitAnswers(7, "paper-1", map[string]model.ChosenValue{
		"q-single": {"B"},
		"q-short":  {"答了一些"},
	}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	// 模拟简答题人工给 8 分
	key := answerKey(7, "paper-1", "q-short")
	rec := answers.records[key]
	manual := 8.0
	correct := true
	rec.ManualScore = &manual
	rec.IsCorrect = &correct
	rec.Status = model.StatusGraded
	answers.records[key] = rec

	result, err := svc.GetExamResult(7, "paper-1")
	if err != nil {
		t.Fatalf("GetExamResult: %v", err)
	}
	if result.UserScore != 18 {
		t.Errorf("UserScore = %v, want 18 (10 machine + 8 manual)", result.UserScore)
	}
	if result.TotalScore != 40 {
		t.Errorf("TotalScore = %v, want 40", result.TotalScore)
	}
}
