package grading

import (
	"encoding/json"
	"errors"
	"testing"

	"qingfeng_exam_backend/internal/model"
)

func choiceQuestion(qType model.QuestionType, answer []string, labels ...string) *model.Question {
	opts := make([]model.Option, 0, len(labels))
	for _, l := range labels {
		opts = append(opts, model.Option{Label: l, Text: "选项" + l})
	}
	raw, _ := json.Marshal(opts)

	q := &model.Question{
		Type:    qType,
		Options: raw,
		Answer:  model.StringArray(answer),
	}
	q.ID = "q-" + string(qType)
	return q
}

func TestGrade_SingleChoice(t *testing.T) {
	q := choiceQuestion(model.QuestionSingle, []string{"B"}, "A", "B", "C", "D")

	tests := []struct {
		name        string
		chosen      []string
		wantCorrect bool
		wantScore   float64
	}{
		{name: "correct", chosen: []string{"B"}, wantCorrect: true, wantScore: 2},
		{name: "wrong", chosen: []string{"A"}, wantCorrect: false, wantScore: 0},
		{name: "unanswered", chosen: nil, wantCorrect: false, wantScore: 0},
		{name: "empty slice", chosen: []string{}, wantCorrect: false, wantScore: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Grade(q, 2, tc.chosen)
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if v.IsCorrect == nil || *v.IsCorrect != tc.wantCorrect {
				t.Fatalf("is_correct = %v, want %v", v.IsCorrect, tc.wantCorrect)
			}
			if v.Score != tc.wantScore {
				t.Fatalf("score = %v, want %v", v.Score, tc.wantScore)
			}
			if v.Status != model.StatusAuto {
				t.Fatalf("status = %q, want auto", v.Status)
			}
		})
	}
}

func TestGrade_MultipleChoiceOrderIndependent(t *testing.T) {
	q := choiceQuestion(model.QuestionMultiple, []string{"A", "C"}, "A", "B", "C", "D")

	for _, chosen := range [][]string{{"A", "C"}, {"C", "A"}} {
		v, err := Grade(q, 3, chosen)
		if err != nil {
			t.Fatalf("Grade(%v): %v", chosen, err)
		}
		if v.IsCorrect == nil || !*v.IsCorrect {
			t.Fatalf("submission %v should be correct regardless of order", chosen)
		}
		if v.Score != 3 {
			t.Fatalf("score = %v, want 3", v.Score)
		}
	}
}

func TestGrade_MultipleChoiceNoPartialCredit(t *testing.T) {
	q := choiceQuestion(model.QuestionMultiple, []string{"A", "D"}, "A", "B", "C", "D")

	for _, chosen := range [][]string{{"A"}, {"A", "B"}, {"A", "B", "D"}} {
		v, err := Grade(q, 3, chosen)
		if err != nil {
			t.Fatalf("Grade(%v): %v", chosen, err)
		}
		if v.IsCorrect == nil || *v.IsCorrect {
			t.Fatalf("submission %v should be wrong (exact set equality)", chosen)
		}
		if v.Score != 0 {
			t.Fatalf("score = %v, want 0", v.Score)
		}
	}
}

func TestGrade_TrueFalseWithoutOptions(t *testing.T) {
	q := &model.Question{Type: model.QuestionTrueFalse, Answer: model.StringArray{"T"}}
	q.ID = "q-tf"

	v, err := Grade(q, 1, []string{"T"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if v.IsCorrect == nil || !*v.IsCorrect {
		t.Fatal("T should match canonical T")
	}

	v, err = Grade(q, 1, []string{"F"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if v.IsCorrect == nil || *v.IsCorrect {
		t.Fatal("F should not match canonical T")
	}
}

func TestGrade_FillFuzzy(t *testing.T) {
	q := &model.Question{Type: model.QuestionFill, Answer: model.StringArray{"光合作用"}}
	q.ID = "q-fill"

	v, err := Grade(q, 2, []string{"光合做用"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if v.IsCorrect == nil || !*v.IsCorrect {
		t.Fatal("one-character typo should be accepted by the fuzzy matcher")
	}
	if v.Score != 2 {
		t.Fatalf("score = %v, want 2", v.Score)
	}

	v, err = Grade(q, 2, []string{"呼吸作用"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if v.IsCorrect == nil || *v.IsCorrect {
		t.Fatal("a different concept must not be accepted")
	}
}

func TestGrade_ShortAlwaysPending(t *testing.T) {
	q := &model.Question{Type: model.QuestionShort, Answer: model.StringArray{"参考答案"}}
	q.ID = "q-short"

	for _, chosen := range [][]string{{"我的论述"}, {""}, nil} {
		v, err := Grade(q, 5, chosen)
		if err != nil {
			t.Fatalf("Grade(%v): %v", chosen, err)
		}
		if v.IsCorrect != nil {
			t.Fatalf("is_correct = %v, want nil for short answers", *v.IsCorrect)
		}
		if v.Score != 0 {
			t.Fatalf("score = %v, want 0", v.Score)
		}
		if v.Status != model.StatusPending {
			t.Fatalf("status = %q, want pending", v.Status)
		}
	}
}

func TestGrade_UnknownTypeFailsLoudly(t *testing.T) {
	q := &model.Question{Type: "essay", Answer: model.StringArray{"x"}}
	q.ID = "q-bad"

	_, err := Grade(q, 1, []string{"x"})
	if !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("err = %v, want ErrUnknownQuestionType", err)
	}
}

func TestGrade_AnswerOutsideOptions(t *testing.T) {
	q := choiceQuestion(model.QuestionSingle, []string{"E"}, "A", "B", "C", "D")

	_, err := Grade(q, 1, []string{"A"})
	if !errors.Is(err, ErrAnswerOptionMismatch) {
		t.Fatalf("err = %v, want ErrAnswerOptionMismatch", err)
	}
}
