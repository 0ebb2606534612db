package model

import "encoding/json"

// QuestionType 题型，封闭集合。批改引擎对其做穷举分支，
// 新增题型必须同步扩展引擎，否则按数据错误处理。
type QuestionType string

const (
	QuestionSingle    QuestionType = "single"     // 单选题
	QuestionMultiple  QuestionType = "multiple"   // 多选题
	QuestionTrueFalse QuestionType = "true_false" // 判断题
	QuestionFill      QuestionType = "fill"       // 填空题
	QuestionShort     QuestionType = "short"      // 简答题，仅人工批阅
)

// Option 选择题选项
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// swagger:model Question
type Question struct {
	UUIDBase
	Subject    string       `gorm:"size:50;index" json:"subject"`
	Grade      string       `gorm:"size:50;index" json:"grade"`
	Semester   string       `gorm:"size:50" json:"semester"`
	Type       QuestionType `gorm:"size:20;not null;index" json:"type"`
	Difficulty int          `gorm:"default:1" json:"difficulty"`
	Stem       string       `gorm:"type:text;not null" json:"stem"`
	// Options 仅选择/判断题存在，JSON: []Option
	Options json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	// Answer 标准答案。单选/判断恰好一个元素，多选一个以上，
	// 填空按空位顺序一项一空，简答为单条参考答案。
	Answer    StringArray `gorm:"type:json" json:"answer"`
	Analysis  string      `gorm:"type:text" json:"analysis"`
	Tags      StringArray `gorm:"type:json" json:"tags"`
	CreatedBy uint        `gorm:"index" json:"createdBy"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList 解析 Options 字段，非选择题返回空
func (q *Question) OptionList() []Option {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []Option
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}
