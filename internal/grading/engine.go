package grading

import (
	"errors"
	"fmt"
	"sort"

	"qingfeng_exam_backend/internal/model"
)

var (
	// ErrUnknownQuestionType 题型不在封闭集合内，属于题库数据错误，必须上抛
	ErrUnknownQuestionType = errors.New("unknown question type")
	// ErrAnswerOptionMismatch 选择题标准答案引用了不存在的选项标签
	ErrAnswerOptionMismatch = errors.New("answer references label not present in options")
)

// Verdict 单题批改结论
type Verdict struct {
	// IsCorrect 为 nil 表示不可机器判定（简答题）
	IsCorrect *bool
	Score     float64
	Status    model.AnswerStatus
}

// Grade 按题型批改一道题。chosen 为学生作答（nil/空视为未作答），
// maxScore 为该题在卷面上的分值。
//
// 客观题（单选/多选/判断/填空）全对得满分、否则 0 分，无部分给分；
// 简答题一律转入人工批阅，不产生机器得分。
func Grade(q *model.Question, maxScore float64, chosen []string) (Verdict, error) {
	if err := validate(q); err != nil {
		return Verdict{}, err
	}

	switch q.Type {
	case model.QuestionSingle, model.QuestionMultiple, model.QuestionTrueFalse:
		correct := equalSorted(chosen, q.Answer)
		return objectiveVerdict(correct, maxScore), nil

	case model.QuestionFill:
		correct := MatchArray(chosen, q.Answer, DefaultThreshold)
		return objectiveVerdict(correct, maxScore), nil

	case model.QuestionShort:
		// 简答题无论是否作答都进入待批阅，空答也要批阅人给分
		return Verdict{IsCorrect: nil, Score: 0, Status: model.StatusPending}, nil

	default:
		return Verdict{}, fmt.Errorf("%w: %q (question %s)", ErrUnknownQuestionType, q.Type, q.ID)
	}
}

func objectiveVerdict(correct bool, maxScore float64) Verdict {
	v := Verdict{IsCorrect: &correct, Status: model.StatusAuto}
	if correct {
		v.Score = maxScore
	}
	return v
}

// Validate 题目入库前的数据校验，批改时会再执行一次
func Validate(q *model.Question) error {
	return validate(q)
}

// validate 校验选择类题目的标准答案必须落在选项标签内
func validate(q *model.Question) error {
	switch q.Type {
	case model.QuestionSingle, model.QuestionMultiple, model.QuestionTrueFalse:
	default:
		return nil
	}

	opts := q.OptionList()
	if len(opts) == 0 {
		// 判断题允许无选项，以 T/F 作答
		if q.Type == model.QuestionTrueFalse {
			return nil
		}
		return fmt.Errorf("%w: question %s has no options", ErrAnswerOptionMismatch, q.ID)
	}

	labels := make(map[string]bool, len(opts))
	for _, o := range opts {
		labels[o.Label] = true
	}
	for _, a := range q.Answer {
		if !labels[a] {
			return fmt.Errorf("%w: label %q (question %s)", ErrAnswerOptionMismatch, a, q.ID)
		}
	}
	return nil
}

// equalSorted 排序后逐项比较，选项顺序无关，全对才算对
func equalSorted(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
